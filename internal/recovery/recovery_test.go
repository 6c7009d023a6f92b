package recovery

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/constraint"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/solver"
)

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func mkFlight(id, number string, depMin int, duration int, revenue float64) flight.Flight {
	base := time.Date(2025, 8, 16, 0, 0, 0, 0, time.UTC)
	dep := base.Add(time.Duration(depMin) * time.Minute)
	return flight.Flight{
		FlightID:              id,
		FlightNumber:          number,
		DepartureAirport:      "PEK",
		ArrivalAirport:        "SHA",
		ScheduledDeparture:    dep,
		TargetDeparture:       dep,
		FlightDurationMinutes: duration,
		Revenue:               revenue,
		TargetDepMinOfDay:     depMin,
	}
}

func baselineFlights() flight.Table {
	f1 := mkFlight("F1", "CA101", 8*60+10, 120, 30000)
	f2 := mkFlight("F2", "CA203", 8*60+25, 120, 30000)
	f3 := mkFlight("F3", "CA305", 8*60+55, 120, 30000)
	return flight.Table{
		Order: []string{"F1", "F2", "F3"},
		ByID:  map[string]flight.Flight{"F1": f1, "F2": f2, "F3": f3},
	}
}

func testLimits() SolveLimits {
	l := DefaultSolveLimits
	l.TimeLimit = 5 * time.Second
	return l
}

// S1 — baseline: no constraints, everything stays normal.
func TestScenarioBaselineAllOperatedNormal(t *testing.T) {
	flights := baselineFlights()
	h := BuildModel(flights, constraint.Bundle{}, DefaultWeights, DefaultCostParams, testLimits())
	out := Solve(h, testLimits())
	if out.Status != solver.Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	if !approxEqual(out.Objective, 0) {
		t.Fatalf("objective = %v, want 0", out.Objective)
	}
	table := ExtractResults(h, out)
	if table == nil {
		t.Fatal("expected non-nil result table")
	}
	for _, row := range table.Rows {
		if row.Status != "operated" || row.AdjustmentAction != "normal" || row.AdditionalDelayMinutes != 0 {
			t.Errorf("row %+v, want operated/normal/0", row)
		}
	}
}

// S2 — a same-day ("daytime") curfew window is accepted but never
// enforced; only wrap-around windows are.
func TestScenarioSameDayCurfewIgnored(t *testing.T) {
	flights := baselineFlights()
	bundle := constraint.Bundle{AirportRestriction: []constraint.CurfewRule{
		{RestrictionType: "AIRPORT_CURFEW", AirportCode: "PEK", StartTimeOfDay: "00:00", EndTimeOfDay: "05:00", Priority: "MUST"},
		{RestrictionType: "AIRPORT_CURFEW", AirportCode: "SHA", StartTimeOfDay: "07:00", EndTimeOfDay: "10:00", Priority: "MUST"},
	}}
	h := BuildModel(flights, bundle, DefaultWeights, DefaultCostParams, testLimits())
	if got := h.CompileStats().NonWrapAroundCurfew; got != 2 {
		t.Errorf("CompileStats().NonWrapAroundCurfew = %d, want 2 (both rules are same-day)", got)
	}
	out := Solve(h, testLimits())
	if out.Status != solver.Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	table := ExtractResults(h, out)
	for _, row := range table.Rows {
		if row.Status != "operated" || row.AdjustmentAction != "normal" {
			t.Errorf("row %+v, want operated/normal (same-day windows must be ignored)", row)
		}
	}
}

// S3 — a hard capacity cap of 1 within the 08:00-09:00 window forces
// cancellation of the other two flights in that window.
func TestScenarioHardCapacitySqueeze(t *testing.T) {
	flights := baselineFlights()
	bundle := constraint.Bundle{AirportCapacity: constraint.CapacityRule{
		"PEK": {"08:00-09:00": {Limit: 1, Priority: "MUST"}},
	}}
	h := BuildModel(flights, bundle, DefaultWeights, DefaultCostParams, testLimits())
	out := Solve(h, testLimits())
	if out.Status != solver.Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	if !approxEqual(out.Objective, 60000) {
		t.Fatalf("objective = %v, want 60000", out.Objective)
	}
	table := ExtractResults(h, out)
	operated, cancelled := 0, 0
	for _, row := range table.Rows {
		if row.Status == "operated" {
			operated++
		} else {
			cancelled++
		}
	}
	if operated != 1 || cancelled != 2 {
		t.Fatalf("operated=%d cancelled=%d, want 1/2", operated, cancelled)
	}
}

// S4 — the same squeeze at HIGH priority instead of MUST: nobody is
// cancelled, but a capacity overage of 2 is charged at PENALTY_HIGH.
func TestScenarioSoftCapacityAllowsOverage(t *testing.T) {
	flights := baselineFlights()
	bundle := constraint.Bundle{AirportCapacity: constraint.CapacityRule{
		"PEK": {"08:00-09:00": {Limit: 1, Priority: "HIGH"}},
	}}
	h := BuildModel(flights, bundle, DefaultWeights, DefaultCostParams, testLimits())
	out := Solve(h, testLimits())
	if out.Status != solver.Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	if !approxEqual(out.Objective, 2*DefaultCostParams.PenaltyHigh) {
		t.Fatalf("objective = %v, want %v", out.Objective, 2*DefaultCostParams.PenaltyHigh)
	}
	table := ExtractResults(h, out)
	for _, row := range table.Rows {
		if row.Status != "operated" {
			t.Errorf("row %+v, want all operated under a soft cap", row)
		}
	}
	found := false
	for _, v := range table.SoftViolations {
		if approxEqual(v.Value, 2) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a soft violation of value 2, got %+v", table.SoftViolations)
	}
}

// S5 — adding a MUST cancel quota of 0 on top of the hard squeeze makes
// the problem infeasible: the squeeze requires a cancellation, the
// quota forbids it.
func TestScenarioQuotaForbidsRequiredCancellation(t *testing.T) {
	flights := baselineFlights()
	bundle := constraint.Bundle{
		AirportCapacity: constraint.CapacityRule{
			"PEK": {"08:00-09:00": {Limit: 1, Priority: "MUST"}},
		},
		Quota: constraint.QuotaBundle{Cancel: &constraint.QuotaLimit{Max: 0, Priority: "MUST"}},
	}
	h := BuildModel(flights, bundle, DefaultWeights, DefaultCostParams, testLimits())
	out := Solve(h, testLimits())
	if out.Status != solver.Infeasible {
		t.Fatalf("status = %v, want Infeasible", out.Status)
	}
	if ExtractResults(h, out) != nil {
		t.Error("expected nil result table for an infeasible outcome")
	}
}

// S6 — batch preserves weight-vector order and attaches each outcome's
// own weight vector regardless of execution order.
func TestScenarioBatchPreservesOrder(t *testing.T) {
	flights := baselineFlights()
	weights := []WeightVector{
		{Cancel: 1, Delay: 0, Swap: 0},
		{Cancel: 0, Delay: 0, Swap: 0},
		{Cancel: 0.5, Delay: 0, Swap: 0},
	}
	outcomes := BatchSolve(context.Background(), flights, constraint.Bundle{}, weights, DefaultCostParams, testLimits(), nil)
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Index != i {
			t.Errorf("outcomes[%d].Index = %d", i, o.Index)
		}
		if o.Weights != weights[i] {
			t.Errorf("outcomes[%d].Weights = %+v, want %+v", i, o.Weights, weights[i])
		}
		if o.Status != solver.Optimal.String() {
			t.Errorf("outcomes[%d].Status = %q, want optimal", i, o.Status)
		}
		if o.CompileStats.EmittedConstraints != 0 {
			t.Errorf("outcomes[%d].CompileStats.EmittedConstraints = %d, want 0 (empty bundle)", i, o.CompileStats.EmittedConstraints)
		}
	}
}

// Boundary property 12: an empty flight table yields a trivial model
// with objective 0 and an empty result table.
func TestEmptyFlightTableIsTrivial(t *testing.T) {
	empty := flight.Table{ByID: map[string]flight.Flight{}}
	h := BuildModel(empty, constraint.Bundle{}, DefaultWeights, DefaultCostParams, testLimits())
	out := Solve(h, testLimits())
	if out.Status != solver.Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	if !approxEqual(out.Objective, 0) {
		t.Fatalf("objective = %v, want 0", out.Objective)
	}
	table := ExtractResults(h, out)
	if table == nil || len(table.Rows) != 0 {
		t.Fatalf("expected empty result table, got %+v", table)
	}
}

// Invariant 11: rebuilding and re-solving identical inputs yields the
// same objective within solver tolerance.
func TestRepeatedSolveSameObjective(t *testing.T) {
	flights := baselineFlights()
	bundle := constraint.Bundle{AirportCapacity: constraint.CapacityRule{
		"PEK": {"08:00-09:00": {Limit: 1, Priority: "MUST"}},
	}}
	h1 := BuildModel(flights, bundle, DefaultWeights, DefaultCostParams, testLimits())
	out1 := Solve(h1, testLimits())
	h2 := BuildModel(flights, bundle, DefaultWeights, DefaultCostParams, testLimits())
	out2 := Solve(h2, testLimits())
	if !approxEqual(out1.Objective, out2.Objective) {
		t.Fatalf("objective mismatch across rebuilds: %v vs %v", out1.Objective, out2.Objective)
	}
}
