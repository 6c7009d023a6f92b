// Package modelapi is the narrow seam between the constraint compiler
// and the model builder: compiled constraints are a tagged-variant
// stream, and each variant emits its variables and linear constraints
// against this Builder interface rather than importing the model
// builder directly. Adding a fourth constraint family only ever means
// adding one more Emitter implementation in internal/constraint.
package modelapi

// Priority is the severity a soft or hard rule was authored at.
// Must is always a hard constraint; the other three are always soft,
// penalized by the corresponding PENALTY_* cost parameter.
type Priority int

const (
	Must Priority = iota
	High
	Medium
	Low
)

func (p Priority) String() string {
	switch p {
	case Must:
		return "MUST"
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	case Low:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// ParsePriority maps the raw constraint-bundle priority string onto a
// Priority, defaulting to High for anything unrecognized (the original
// source's own default for unspecified curfew priority).
func ParsePriority(s string) Priority {
	switch s {
	case "MUST":
		return Must
	case "MEDIUM":
		return Medium
	case "LOW":
		return Low
	default:
		return High
	}
}

// VarRef is an opaque handle to a decision variable declared through
// Builder. It is only ever passed back into Builder methods or read out
// of a solved model by the result extractor.
type VarRef int

// PenaltyTerm pairs a slack/violation variable with the priority whose
// PENALTY_* cost parameter prices it in the objective.
type PenaltyTerm struct {
	Var      VarRef
	Priority Priority
	Label    string // diagnostic name, e.g. "capacity_PEK_08_00_09_00_overage"
}

// Builder is the model-construction surface a compiled constraint emits
// against. internal/recovery's ModelHandle implements it; internal/
// constraint never imports internal/recovery directly.
type Builder interface {
	// NewBinary declares a fresh binary decision variable (a curfew-gate
	// selector or a soft-constraint violation flag) and returns its ref.
	NewBinary(label string) VarRef

	// NewSlack declares a fresh non-negative continuous slack variable
	// (a capacity/quota overage) and returns its ref.
	NewSlack(label string) VarRef

	// AddLE/AddGE/AddEQ add a linear constraint over VarRefs, weighted by
	// coeffs, against rhs. Every compiled constraint is expressed as one
	// or more of these plus, for soft rules, a PenaltyTerm.
	AddLE(label string, coeffs map[VarRef]float64, rhs float64)
	AddGE(label string, coeffs map[VarRef]float64, rhs float64)
	AddEQ(label string, coeffs map[VarRef]float64, rhs float64)

	// FlightVar resolves one of a flight's own structural decision
	// variables (cancel, swap, operated, delay, dep_mod, arr_mod) by
	// flight id and role, for constraints that reference them directly
	// (e.g. a capacity rule summing x[f] over a window).
	FlightVar(flightID string, role FlightVarRole) (VarRef, bool)

	// BigM returns the Big-M constant compiled constraints should use for
	// disjunctive (gate-selector) formulations.
	BigM() float64
}

// FlightVarRole names one of the per-flight structural variables
// declared by the model builder.
type FlightVarRole int

const (
	RoleCancel FlightVarRole = iota
	RoleSwap
	RoleOperated
	RoleDelay
	RoleDepMod
	RoleArrMod
)
