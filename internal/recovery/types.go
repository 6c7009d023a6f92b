// Package recovery turns a normalized flight table and compiled
// constraints into a MILP, solves it, and reports a per-flight
// disposition, across one or many weight vectors.
package recovery

import (
	"time"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/constraint"
)

// WeightVector scales the three action terms of the objective. Penalty
// constants for soft constraints are never scaled by these weights, so
// HIGH/MEDIUM/LOW severity stays comparable across a weight sweep.
type WeightVector struct {
	Cancel float64
	Delay  float64
	Swap   float64
}

// DefaultWeights is the engine's out-of-the-box weight vector.
var DefaultWeights = WeightVector{Cancel: 1.0, Delay: 0.3, Swap: 0.3}

// CostParams are the configurable cost constants priced into the
// objective.
type CostParams struct {
	Cancel           float64 // C_CANCEL
	Swap             float64 // C_SWAP
	DelayPerMinute   float64 // C_DELAY_PER_MIN
	PenaltyHigh      float64
	PenaltyMedium    float64
	PenaltyLow       float64
}

// DefaultCostParams mirrors the original tool's own defaults.
var DefaultCostParams = CostParams{
	Cancel:         30000,
	Swap:           15000,
	DelayPerMinute: 80,
	PenaltyHigh:    1_000_000,
	PenaltyMedium:  100_000,
	PenaltyLow:     10_000,
}

// SolveLimits bounds a single solve.
type SolveLimits struct {
	MaxDelayMinutes       int
	SeverDelayThreshold   int
	BigM                  float64
	SolverName            string
	TimeLimit             time.Duration
	MIPGap                float64
}

// DefaultSolveLimits mirrors the original tool's own defaults.
var DefaultSolveLimits = SolveLimits{
	MaxDelayMinutes:     240,
	SeverDelayThreshold: 120,
	BigM:                10000,
	SolverName:          "glpk",
	TimeLimit:           60 * time.Second,
}

// SoftViolation reports one soft-constraint slack whose solved value
// exceeds the diagnostic tolerance.
type SoftViolation struct {
	Label    string
	Value    float64
	Priority string
}

// ResultRow is one flight's disposition in a solved result table.
type ResultRow struct {
	FlightID               string
	FlightNumber           string
	ScheduledDeparture     time.Time
	TargetDeparture        time.Time
	Status                 string // "operated" | "cancelled"
	AdjustmentAction       string // "normal" | "delay" | "swap" | "cancel"
	AdditionalDelayMinutes int
	AdjustedDepartureTime  *time.Time
}

// ResultTable is the full per-flight extraction, preserving input order,
// plus the soft-constraint diagnostics for the solve that produced it.
type ResultTable struct {
	Rows           []ResultRow
	SoftViolations []SoftViolation
	Objective      float64
}

// BatchOutcome is one weight vector's outcome within a batch run.
type BatchOutcome struct {
	Index        int
	Weights      WeightVector
	Status       string // mirrors solver.Status.String()
	Table        *ResultTable
	Reason       string
	CompileStats constraint.CompileStats
}
