package recovery

import (
	"fmt"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/constraint"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/modelapi"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/solver"
)

// BuildModel declares the decision variables and structural constraints
// for every flight, compiles the constraint bundle through internal/
// constraint, and assembles the weighted objective. It never fails: an
// empty flight table yields a trivial model with objective 0.
func BuildModel(flights flight.Table, bundle constraint.Bundle, weights WeightVector, costs CostParams, limits SolveLimits) *ModelHandle {
	h := &ModelHandle{
		Model:      solver.NewModel(),
		Flights:    flights,
		Limits:     limits,
		flightVars: make(map[string]flightVarSet, flights.Len()),
	}

	for _, f := range flights.Flights() {
		set := flightVarSet{
			cancel:   modelapi.VarRef(h.Model.AddBinary("cancel_" + f.FlightID)),
			swap:     modelapi.VarRef(h.Model.AddBinary("swap_" + f.FlightID)),
			operated: modelapi.VarRef(h.Model.AddBinary("x_" + f.FlightID)),
			delay:    modelapi.VarRef(h.Model.AddContinuous("d_"+f.FlightID, 0, float64(limits.MaxDelayMinutes))),
			depMod:   modelapi.VarRef(h.Model.AddContinuous("dep_mod_"+f.FlightID, 0, MinutesInTwoDays-1)),
			arrMod:   modelapi.VarRef(h.Model.AddContinuous("arr_mod_"+f.FlightID, 0, MinutesInTwoDays-1)),
		}
		h.flightVars[f.FlightID] = set

		// 1. Action exclusivity: swap + cancel <= 1.
		h.AddLE(label(f, "exclusivity"), map[modelapi.VarRef]float64{set.swap: 1, set.cancel: 1}, 1)

		// 2. Operation link: x + cancel == 1.
		h.AddEQ(label(f, "operation_link"), map[modelapi.VarRef]float64{set.operated: 1, set.cancel: 1}, 1)

		// 3. Delay gating: d - maxDelay*x <= 0.
		h.AddLE(label(f, "delay_gate"), map[modelapi.VarRef]float64{set.delay: 1, set.operated: -float64(limits.MaxDelayMinutes)}, 0)

		// 4. Departure time identity: dep_mod - d == target_dep_min_of_day.
		h.AddEQ(label(f, "dep_identity"), map[modelapi.VarRef]float64{set.depMod: 1, set.delay: -1}, float64(f.TargetDepMinOfDay))

		// 5. Arrival time identity: arr_mod - d == target_dep_min_of_day + duration.
		h.AddEQ(label(f, "arr_identity"), map[modelapi.VarRef]float64{set.arrMod: 1, set.delay: -1}, float64(f.TargetDepMinOfDay+f.FlightDurationMinutes))
	}

	emitters, stats := constraint.Compile(bundle, flights)
	h.compileStats = stats
	for _, e := range emitters {
		h.recordPenalties(e.Emit(h))
	}

	h.Model.SetObjective(buildObjective(h, flights, weights, costs))
	return h
}

func label(f flight.Flight, suffix string) string {
	return fmt.Sprintf("%s_%s", suffix, f.FlightID)
}

func buildObjective(h *ModelHandle, flights flight.Table, weights WeightVector, costs CostParams) solver.Expr {
	obj := solver.NewExpr()
	for _, f := range flights.Flights() {
		set := h.flightVars[f.FlightID]
		// The cancellation term is charged at the flight's own revenue,
		// not the C_CANCEL cost parameter: C_CANCEL is carried in
		// CostParams for configuration-surface parity but, as in the
		// source this is adapted from, never enters the objective.
		obj = obj.Term(int(set.cancel), weights.Cancel*f.Revenue)
		obj = obj.Term(int(set.swap), weights.Swap*costs.Swap)
		obj = obj.Term(int(set.delay), weights.Delay*costs.DelayPerMinute)
	}
	for _, p := range h.penalties {
		obj = obj.Term(int(p.Var), penaltyWeight(p.Priority, costs))
	}
	return obj
}

func penaltyWeight(p modelapi.Priority, costs CostParams) float64 {
	switch p {
	case modelapi.High:
		return costs.PenaltyHigh
	case modelapi.Low:
		return costs.PenaltyLow
	default:
		return costs.PenaltyMedium
	}
}
