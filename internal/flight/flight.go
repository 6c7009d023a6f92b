// Package flight turns a heterogeneous, possibly bilingual, tabular
// flight collection into the engine's canonical Flight schema, performing
// alias mapping exactly once so every downstream package only ever sees
// canonical fields.
package flight

import "time"

// Canonical column keys. RawRecord values are looked up under these keys
// (so a previously-normalized table round-trips cleanly) or under any of
// the original-operator aliases in aliases.go.
const (
	ColFlightID             = "flight_id"
	ColFlightNumber         = "flight_number"
	ColDepartureAirport     = "departure_airport"
	ColArrivalAirport       = "arrival_airport"
	ColScheduledDeparture   = "scheduled_departure"
	ColTargetDeparture      = "target_departure"
	ColExpectedDeparture    = "expected_departure"
	ColExpectedArrival      = "expected_arrival"
	ColCTOT                 = "ctot"
	ColFlightDurationMinute = "flight_duration_minutes"
	ColRevenue              = "revenue"
	ColPassengerCount       = "passenger_count"
)

// Default fallbacks used when a value can't be derived from the row
// at all (see DESIGN.md for why 75000 and 30000 are both needed).
const (
	DefaultDurationMinutes = 120
	DefaultRevenueNoData   = 75000.0 // no passenger count available at all
	DefaultRevenueMalformed = 30000.0 // passenger count present but unusable
	RevenuePerPassenger    = 500.0
)

// RawRecord is one input row, keyed by either canonical field names or
// the original operator's bilingual column names (see aliases.go). Time
// values may be supplied as time.Time or as a parseable string; numeric
// values as any of the Go numeric kinds or a numeric string.
type RawRecord map[string]interface{}

// Flight is the canonical per-flight record every downstream package
// consumes. FlightID is unique within a Table.
type Flight struct {
	FlightID              string
	FlightNumber          string
	CarrierCode           string
	DepartureAirport      string
	ArrivalAirport        string
	ScheduledDeparture    time.Time
	TargetDeparture       time.Time
	FlightDurationMinutes int
	Revenue               float64
	TargetDepMinOfDay     int
	BaseDelayMinutes      float64
}

// Table is the normalizer's output: canonical flights indexed by
// FlightID, plus the input order (batch/result-table ordering is
// deterministic and input-order-preserving).
type Table struct {
	Order   []string
	ByID    map[string]Flight
}

// Len reports how many flights the table holds.
func (t Table) Len() int { return len(t.Order) }

// Flights returns the canonical flights in input order.
func (t Table) Flights() []Flight {
	out := make([]Flight, 0, len(t.Order))
	for _, id := range t.Order {
		out = append(out, t.ByID[id])
	}
	return out
}

// Get looks up a flight by id.
func (t Table) Get(id string) (Flight, bool) {
	f, ok := t.ByID[id]
	return f, ok
}

// Stats reports counters an operator cares about but that never fail the
// normalization run.
type Stats struct {
	InputRows             int
	DroppedMissingDepart  int // MissingDepartureTime
	DuplicateIDsReassigned bool
	DurationsFilledFromMean int
	DurationsFilledDefault  int
}
