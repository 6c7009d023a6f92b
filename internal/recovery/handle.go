package recovery

import (
	"math"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/constraint"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/modelapi"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/solver"
)

// MinutesInDay and MinutesInTwoDays bound the time-of-day variables;
// the two-day window lets a flight's delayed departure or arrival roll
// past midnight without the model treating that as infeasible.
const (
	MinutesInDay     = 24 * 60
	MinutesInTwoDays = 2 * MinutesInDay
)

type flightVarSet struct {
	cancel   modelapi.VarRef
	swap     modelapi.VarRef
	operated modelapi.VarRef
	delay    modelapi.VarRef
	depMod   modelapi.VarRef
	arrMod   modelapi.VarRef
}

// penaltyEntry pairs a compiled constraint's slack/violation variable
// with the priority that prices it in the objective.
type penaltyEntry struct {
	Var      modelapi.VarRef
	Priority modelapi.Priority
	Label    string
}

// ModelHandle owns the underlying solver.Model exclusively for the
// duration of one build-solve-extract cycle: it is produced by
// BuildModel, consumed by Solve and ExtractResults, and must not be
// reused across solves.
type ModelHandle struct {
	Model        *solver.Model
	Flights      flight.Table
	Limits       SolveLimits
	flightVars   map[string]flightVarSet
	penalties    []penaltyEntry
	compileStats constraint.CompileStats
}

// CompileStats exposes the constraint compiler's non-fatal skip
// counters for this model, surfaced to callers through
// BatchOutcome.CompileStats so a malformed or skipped rule is never
// silently invisible.
func (h *ModelHandle) CompileStats() constraint.CompileStats {
	return h.compileStats
}

var _ modelapi.Builder = (*ModelHandle)(nil)

func (h *ModelHandle) NewBinary(label string) modelapi.VarRef {
	return modelapi.VarRef(h.Model.AddBinary(label))
}

func (h *ModelHandle) NewSlack(label string) modelapi.VarRef {
	return modelapi.VarRef(h.Model.AddContinuous(label, 0, math.Inf(1)))
}

func toExpr(coeffs map[modelapi.VarRef]float64) solver.Expr {
	e := solver.NewExpr()
	for v, c := range coeffs {
		e = e.Term(int(v), c)
	}
	return e
}

func (h *ModelHandle) AddLE(label string, coeffs map[modelapi.VarRef]float64, rhs float64) {
	h.Model.AddConstraint(label, toExpr(coeffs), solver.LE, rhs)
}

func (h *ModelHandle) AddGE(label string, coeffs map[modelapi.VarRef]float64, rhs float64) {
	h.Model.AddConstraint(label, toExpr(coeffs), solver.GE, rhs)
}

func (h *ModelHandle) AddEQ(label string, coeffs map[modelapi.VarRef]float64, rhs float64) {
	h.Model.AddConstraint(label, toExpr(coeffs), solver.EQ, rhs)
}

func (h *ModelHandle) FlightVar(flightID string, role modelapi.FlightVarRole) (modelapi.VarRef, bool) {
	set, ok := h.flightVars[flightID]
	if !ok {
		return 0, false
	}
	switch role {
	case modelapi.RoleCancel:
		return set.cancel, true
	case modelapi.RoleSwap:
		return set.swap, true
	case modelapi.RoleOperated:
		return set.operated, true
	case modelapi.RoleDelay:
		return set.delay, true
	case modelapi.RoleDepMod:
		return set.depMod, true
	case modelapi.RoleArrMod:
		return set.arrMod, true
	default:
		return 0, false
	}
}

func (h *ModelHandle) BigM() float64 {
	return h.Limits.BigM
}

// recordPenalties accepts the PenaltyTerms returned by an Emitter and
// converts them to this handle's internal bookkeeping form.
func (h *ModelHandle) recordPenalties(terms []modelapi.PenaltyTerm) {
	for _, t := range terms {
		h.penalties = append(h.penalties, penaltyEntry{Var: t.Var, Priority: t.Priority, Label: t.Label})
	}
}
