package constraint

import (
	"fmt"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/modelapi"
)

// compiledCurfew enforces one wrap-around airport curfew window against
// one flight's departure or arrival time-of-day variable, following the
// Big-M disjunctive formulation: a MUST rule hard-clamps the time
// variable outside [start, end) unless the flight is cancelled; anything
// softer additionally allows a binary violation flag to relax it, at
// the cost of the rule's priority penalty.
type compiledCurfew struct {
	label      string
	flightID   string
	timeRole   modelapi.FlightVarRole
	startMin   int
	endMin     int
	priority   modelapi.Priority
}

func (c compiledCurfew) Emit(b modelapi.Builder) []modelapi.PenaltyTerm {
	timeVar, ok := b.FlightVar(c.flightID, c.timeRole)
	if !ok {
		return nil
	}
	cancelVar, ok := b.FlightVar(c.flightID, modelapi.RoleCancel)
	if !ok {
		return nil
	}
	bigM := b.BigM()
	st := float64(c.startMin)
	ed := float64(c.endMin)

	if c.priority == modelapi.Must {
		y := b.NewBinary(c.label + "_choice")
		b.AddLE(c.label+"_upper", map[modelapi.VarRef]float64{timeVar: 1, y: -bigM, cancelVar: -bigM}, ed)
		b.AddGE(c.label+"_lower", map[modelapi.VarRef]float64{timeVar: 1, y: -bigM, cancelVar: bigM}, st-bigM)
		return nil
	}

	v := b.NewBinary(c.label + "_violation")
	y := b.NewBinary(c.label + "_choice")
	b.AddLE(c.label+"_upper", map[modelapi.VarRef]float64{timeVar: 1, y: -bigM, cancelVar: -bigM, v: -bigM}, ed)
	b.AddGE(c.label+"_lower", map[modelapi.VarRef]float64{timeVar: 1, y: -bigM, cancelVar: bigM, v: bigM}, st-bigM)
	return []modelapi.PenaltyTerm{{Var: v, Priority: c.priority, Label: c.label + "_violation"}}
}

// compiledCapacity caps the number of operated departures out of one
// airport within one time-of-day window.
type compiledCapacity struct {
	label    string
	flights  []string
	limit    int
	priority modelapi.Priority
}

func (c compiledCapacity) Emit(b modelapi.Builder) []modelapi.PenaltyTerm {
	if len(c.flights) == 0 {
		return nil
	}
	coeffs := make(map[modelapi.VarRef]float64, len(c.flights)+1)
	for _, fid := range c.flights {
		v, ok := b.FlightVar(fid, modelapi.RoleOperated)
		if !ok {
			continue
		}
		coeffs[v] = 1
	}
	if c.priority == modelapi.Must {
		b.AddLE(c.label, coeffs, float64(c.limit))
		return nil
	}
	overage := b.NewSlack(c.label + "_overage")
	coeffs[overage] = -1
	b.AddLE(c.label, coeffs, float64(c.limit))
	return []modelapi.PenaltyTerm{{Var: overage, Priority: c.priority, Label: c.label + "_overage"}}
}

// compiledQuota caps the total number of flights taking a given
// structural action (cancel, swap) across the whole batch.
type compiledQuota struct {
	label    string
	role     modelapi.FlightVarRole
	flights  []string
	max      int
	priority modelapi.Priority
}

func (c compiledQuota) Emit(b modelapi.Builder) []modelapi.PenaltyTerm {
	coeffs := make(map[modelapi.VarRef]float64, len(c.flights)+1)
	for _, fid := range c.flights {
		v, ok := b.FlightVar(fid, c.role)
		if !ok {
			continue
		}
		coeffs[v] = 1
	}
	if c.priority == modelapi.Must {
		b.AddLE(c.label, coeffs, float64(c.max))
		return nil
	}
	overage := b.NewSlack(c.label + "_overage")
	coeffs[overage] = -1
	b.AddLE(c.label, coeffs, float64(c.max))
	return []modelapi.PenaltyTerm{{Var: overage, Priority: c.priority, Label: c.label + "_overage"}}
}

func curfewLabel(flightID, airport string, role modelapi.FlightVarRole) string {
	side := "dep"
	if role == modelapi.RoleArrMod {
		side = "arr"
	}
	return fmt.Sprintf("curfew_%s_%s_%s", side, flightID, airport)
}
