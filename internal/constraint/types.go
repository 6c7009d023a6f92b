// Package constraint turns the raw, loosely-typed constraint bundle
// (curfews, hourly capacity caps, cancel/swap quotas) into a small set
// of compiled Emitters that know how to lay themselves into a model
// through the modelapi.Builder seam, without internal/constraint ever
// importing the model builder package.
package constraint

import (
	"gopkg.in/yaml.v3"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/modelapi"
)

// CurfewRule is one raw airport-restriction row. Only RESTRICTION_TYPE
// "AIRPORT_CURFEW" rows are compiled; everything else is silently
// skipped and counted.
type CurfewRule struct {
	RestrictionType string
	AirportCode     string
	StartTimeOfDay  string // "HH:MM"
	EndTimeOfDay    string // "HH:MM"
	Priority        string // "MUST", "HIGH", "MEDIUM", "LOW"; default HIGH
}

// CapacityWindowLimit is one window's cap for one airport. A scenario
// file may spell it either as a bare integer (a capacity with Priority
// defaulting to "HIGH") or as a {limit, priority} mapping; UnmarshalYAML
// accepts both so CapacityRule never needs two representations.
type CapacityWindowLimit struct {
	Limit    int
	Priority string
}

func (c *CapacityWindowLimit) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var n int
		if err := value.Decode(&n); err != nil {
			return err
		}
		c.Limit = n
		c.Priority = "HIGH"
		return nil
	}

	var aux struct {
		Limit    int    `yaml:"limit"`
		Priority string `yaml:"priority"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	c.Limit = aux.Limit
	c.Priority = aux.Priority
	if c.Priority == "" {
		c.Priority = "HIGH"
	}
	return nil
}

// CapacityRule is the full per-airport, per-window-key capacity map.
// WindowKey accepts either "HH:MM-HH:MM" or "HH:MM(+MM)" (duration in
// minutes), matching both generations of the original operator's
// scenario files.
type CapacityRule map[string]map[string]CapacityWindowLimit

// QuotaLimit caps how many flights may take a given action.
type QuotaLimit struct {
	Max      int
	Priority string
}

// QuotaBundle holds the optional cancel/swap quota limits.
type QuotaBundle struct {
	Cancel *QuotaLimit
	Swap   *QuotaLimit
}

// Bundle is the raw constraint input as parsed from a scenario file,
// mirroring the three top-level keys of the original constraint data
// shape: airport_restriction, airport_capacity, quota.
type Bundle struct {
	AirportRestriction []CurfewRule
	AirportCapacity    CapacityRule
	Quota              QuotaBundle
}

// CompileStats counts the non-fatal issues Compile swallowed rather than
// failing the whole run over.
type CompileStats struct {
	TotalRules            int
	SkippedNonCurfew      int // restriction rows whose type isn't AIRPORT_CURFEW
	MalformedCurfew       int // bad time-of-day syntax
	NonWrapAroundCurfew   int // start <= end: not a wrap-around window, not enforced
	MalformedCapacityKey  int
	EmittedConstraints    int
}

// Emitter is a compiled constraint ready to lay itself into a model.
// Each Emit call declares whatever fresh variables and linear
// constraints it needs against b, and returns the PenaltyTerm(s) (if
// any) the caller should price into the objective.
type Emitter interface {
	Emit(b modelapi.Builder) []modelapi.PenaltyTerm
}
