package recovery

import (
	"math"
	"time"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/solver"
)

const violationTolerance = 0.001
const delayActionThreshold = 0.1
const cancelThreshold = 0.5

// ExtractResults reads a solved (or best-effort feasible) model back
// into a per-flight ResultTable. Only solver.Optimal and
// solver.FeasibleSuboptimal outcomes carry a solution; anything else
// yields a nil table.
func ExtractResults(h *ModelHandle, outcome solver.Outcome) *ResultTable {
	if outcome.Status != solver.Optimal && outcome.Status != solver.FeasibleSuboptimal {
		return nil
	}

	rows := make([]ResultRow, 0, h.Flights.Len())
	for _, f := range h.Flights.Flights() {
		set := h.flightVars[f.FlightID]
		cancelled := outcome.GetValue(int(set.cancel)) > cancelThreshold
		swapped := outcome.GetValue(int(set.swap)) > cancelThreshold
		delayVal := outcome.GetValue(int(set.delay))

		row := ResultRow{
			FlightID:           f.FlightID,
			FlightNumber:       f.FlightNumber,
			ScheduledDeparture: f.ScheduledDeparture,
			TargetDeparture:    f.TargetDeparture,
		}

		switch {
		case cancelled:
			row.Status = "cancelled"
			row.AdjustmentAction = "cancel"
			row.AdditionalDelayMinutes = 0
			row.AdjustedDepartureTime = nil
		default:
			row.Status = "operated"
			additional := int(math.Round(delayVal))
			row.AdditionalDelayMinutes = additional
			adjusted := f.TargetDeparture.Add(time.Duration(additional) * time.Minute)
			row.AdjustedDepartureTime = &adjusted
			switch {
			case swapped:
				row.AdjustmentAction = "swap"
			case delayVal > delayActionThreshold:
				row.AdjustmentAction = "delay"
			default:
				row.AdjustmentAction = "normal"
			}
		}
		rows = append(rows, row)
	}

	var violations []SoftViolation
	for _, p := range h.penalties {
		val := outcome.GetValue(int(p.Var))
		if val > violationTolerance {
			violations = append(violations, SoftViolation{Label: p.Label, Value: val, Priority: p.Priority.String()})
		}
	}

	return &ResultTable{Rows: rows, SoftViolations: violations, Objective: outcome.Objective}
}
