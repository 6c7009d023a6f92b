package constraint

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/modelapi"
)

func tableOf(flights ...flight.Flight) flight.Table {
	t := flight.Table{Order: make([]string, 0, len(flights)), ByID: make(map[string]flight.Flight, len(flights))}
	for _, f := range flights {
		t.Order = append(t.Order, f.FlightID)
		t.ByID[f.FlightID] = f
	}
	return t
}

func TestCompileSkipsNonCurfewRestrictionType(t *testing.T) {
	b := Bundle{AirportRestriction: []CurfewRule{{RestrictionType: "RUNWAY_CLOSURE", AirportCode: "PEK"}}}
	emitters, stats := Compile(b, tableOf())
	if len(emitters) != 0 {
		t.Fatalf("expected no emitters, got %d", len(emitters))
	}
	if stats.SkippedNonCurfew != 1 {
		t.Errorf("SkippedNonCurfew = %d, want 1", stats.SkippedNonCurfew)
	}
}

func TestCompileSkipsNonWrapAroundCurfew(t *testing.T) {
	b := Bundle{AirportRestriction: []CurfewRule{{
		RestrictionType: "AIRPORT_CURFEW", AirportCode: "PEK",
		StartTimeOfDay: "08:00", EndTimeOfDay: "10:00", Priority: "MUST",
	}}}
	emitters, stats := Compile(b, tableOf())
	if len(emitters) != 0 {
		t.Fatalf("expected no emitters for a same-day window, got %d", len(emitters))
	}
	if stats.NonWrapAroundCurfew != 1 {
		t.Errorf("NonWrapAroundCurfew = %d, want 1", stats.NonWrapAroundCurfew)
	}
}

func TestCompileSkipsMalformedCurfewTime(t *testing.T) {
	b := Bundle{AirportRestriction: []CurfewRule{{
		RestrictionType: "AIRPORT_CURFEW", AirportCode: "PEK",
		StartTimeOfDay: "nope", EndTimeOfDay: "06:00", Priority: "MUST",
	}}}
	_, stats := Compile(b, tableOf())
	if stats.MalformedCurfew != 1 {
		t.Errorf("MalformedCurfew = %d, want 1", stats.MalformedCurfew)
	}
}

func TestCompileWrapAroundCurfewEmitsOnePerAffectedFlight(t *testing.T) {
	f1 := flight.Flight{FlightID: "F1", DepartureAirport: "PEK", ArrivalAirport: "SHA"}
	f2 := flight.Flight{FlightID: "F2", DepartureAirport: "CAN", ArrivalAirport: "SHA"}
	f3 := flight.Flight{FlightID: "F3", DepartureAirport: "CTU", ArrivalAirport: "CAN"}
	b := Bundle{AirportRestriction: []CurfewRule{{
		RestrictionType: "AIRPORT_CURFEW", AirportCode: "PEK",
		StartTimeOfDay: "23:00", EndTimeOfDay: "06:00", Priority: "MUST",
	}}}
	emitters, stats := Compile(b, tableOf(f1, f2, f3))
	if len(emitters) != 1 {
		t.Fatalf("expected exactly 1 emitter (only F1 touches PEK), got %d", len(emitters))
	}
	if stats.NonWrapAroundCurfew != 0 || stats.MalformedCurfew != 0 {
		t.Errorf("unexpected skip counters: %+v", stats)
	}
}

type fakeBuilder struct {
	nextVar     modelapi.VarRef
	flightVars  map[string]map[modelapi.FlightVarRole]modelapi.VarRef
	constraints []string
}

func newFakeBuilder(ids ...string) *fakeBuilder {
	fb := &fakeBuilder{flightVars: map[string]map[modelapi.FlightVarRole]modelapi.VarRef{}}
	for _, id := range ids {
		roles := map[modelapi.FlightVarRole]modelapi.VarRef{}
		for _, r := range []modelapi.FlightVarRole{
			modelapi.RoleCancel, modelapi.RoleSwap, modelapi.RoleOperated,
			modelapi.RoleDelay, modelapi.RoleDepMod, modelapi.RoleArrMod,
		} {
			roles[r] = fb.alloc()
		}
		fb.flightVars[id] = roles
	}
	return fb
}

func (fb *fakeBuilder) alloc() modelapi.VarRef {
	v := fb.nextVar
	fb.nextVar++
	return v
}

func (fb *fakeBuilder) NewBinary(label string) modelapi.VarRef { return fb.alloc() }
func (fb *fakeBuilder) NewSlack(label string) modelapi.VarRef  { return fb.alloc() }
func (fb *fakeBuilder) AddLE(label string, coeffs map[modelapi.VarRef]float64, rhs float64) {
	fb.constraints = append(fb.constraints, label)
}
func (fb *fakeBuilder) AddGE(label string, coeffs map[modelapi.VarRef]float64, rhs float64) {
	fb.constraints = append(fb.constraints, label)
}
func (fb *fakeBuilder) AddEQ(label string, coeffs map[modelapi.VarRef]float64, rhs float64) {
	fb.constraints = append(fb.constraints, label)
}
func (fb *fakeBuilder) FlightVar(flightID string, role modelapi.FlightVarRole) (modelapi.VarRef, bool) {
	roles, ok := fb.flightVars[flightID]
	if !ok {
		return 0, false
	}
	v, ok := roles[role]
	return v, ok
}
func (fb *fakeBuilder) BigM() float64 { return 10000 }

func TestCompiledCurfewMustRuleEmitsNoPenaltyTerm(t *testing.T) {
	f1 := flight.Flight{FlightID: "F1", DepartureAirport: "PEK"}
	b := Bundle{AirportRestriction: []CurfewRule{{
		RestrictionType: "AIRPORT_CURFEW", AirportCode: "PEK",
		StartTimeOfDay: "23:00", EndTimeOfDay: "06:00", Priority: "MUST",
	}}}
	emitters, _ := Compile(b, tableOf(f1))
	fb := newFakeBuilder("F1")
	terms := emitters[0].Emit(fb)
	if len(terms) != 0 {
		t.Fatalf("MUST curfew should emit no penalty term, got %d", len(terms))
	}
	if len(fb.constraints) != 2 {
		t.Errorf("expected 2 constraints (upper+lower), got %d", len(fb.constraints))
	}
}

func TestCompiledCurfewSoftRuleEmitsPenaltyTerm(t *testing.T) {
	f1 := flight.Flight{FlightID: "F1", DepartureAirport: "PEK"}
	b := Bundle{AirportRestriction: []CurfewRule{{
		RestrictionType: "AIRPORT_CURFEW", AirportCode: "PEK",
		StartTimeOfDay: "23:00", EndTimeOfDay: "06:00", Priority: "MEDIUM",
	}}}
	emitters, _ := Compile(b, tableOf(f1))
	fb := newFakeBuilder("F1")
	terms := emitters[0].Emit(fb)
	if len(terms) != 1 {
		t.Fatalf("soft curfew should emit exactly 1 penalty term, got %d", len(terms))
	}
	if terms[0].Priority != modelapi.Medium {
		t.Errorf("priority = %v, want Medium", terms[0].Priority)
	}
}

func TestCompileCapacityWindowBothSyntaxes(t *testing.T) {
	f1 := flight.Flight{FlightID: "F1", DepartureAirport: "PEK", TargetDepMinOfDay: 8 * 60}
	f2 := flight.Flight{FlightID: "F2", DepartureAirport: "PEK", TargetDepMinOfDay: 8*60 + 30}
	b := Bundle{AirportCapacity: CapacityRule{
		"PEK": {
			"08:00-09:00": {Limit: 5, Priority: "MUST"},
		},
	}}
	emitters, stats := Compile(b, tableOf(f1, f2))
	if len(emitters) != 1 {
		t.Fatalf("expected 1 capacity emitter, got %d", len(emitters))
	}
	if stats.MalformedCapacityKey != 0 {
		t.Errorf("unexpected malformed key count: %d", stats.MalformedCapacityKey)
	}

	b2 := Bundle{AirportCapacity: CapacityRule{
		"PEK": {
			"08:00(+60)": {Limit: 5, Priority: "HIGH"},
		},
	}}
	emitters2, _ := Compile(b2, tableOf(f1, f2))
	if len(emitters2) != 1 {
		t.Fatalf("expected 1 capacity emitter for legacy syntax, got %d", len(emitters2))
	}
}

func TestCapacityWindowLimitUnmarshalsBareIntWithDefaultPriority(t *testing.T) {
	var rule CapacityRule
	if err := yaml.Unmarshal([]byte("PEK:\n  \"08:00-09:00\": 5\n"), &rule); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := rule["PEK"]["08:00-09:00"]
	if got.Limit != 5 || got.Priority != "HIGH" {
		t.Errorf("got %+v, want {Limit:5 Priority:HIGH}", got)
	}
}

func TestCapacityWindowLimitUnmarshalsDictForm(t *testing.T) {
	var rule CapacityRule
	if err := yaml.Unmarshal([]byte("PEK:\n  \"08:00-09:00\":\n    limit: 5\n    priority: MUST\n"), &rule); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := rule["PEK"]["08:00-09:00"]
	if got.Limit != 5 || got.Priority != "MUST" {
		t.Errorf("got %+v, want {Limit:5 Priority:MUST}", got)
	}
}

func TestCompileQuotaEmitsOverageForSoftPriority(t *testing.T) {
	f1 := flight.Flight{FlightID: "F1"}
	f2 := flight.Flight{FlightID: "F2"}
	b := Bundle{Quota: QuotaBundle{Cancel: &QuotaLimit{Max: 1, Priority: "LOW"}}}
	emitters, _ := Compile(b, tableOf(f1, f2))
	if len(emitters) != 1 {
		t.Fatalf("expected 1 quota emitter, got %d", len(emitters))
	}
	fb := newFakeBuilder("F1", "F2")
	terms := emitters[0].Emit(fb)
	if len(terms) != 1 {
		t.Fatalf("soft quota should emit 1 penalty term, got %d", len(terms))
	}
	if terms[0].Priority != modelapi.Low {
		t.Errorf("priority = %v, want Low", terms[0].Priority)
	}
}
