package flight

// aliases maps the original operator's bilingual column names onto the
// canonical keys above. A RawRecord may use either, so a normalized
// Table round-trips as input. If one row carries both a canonical key
// and an alias of it, which of the two values is read is not defined.
var aliases = map[string]string{
	"航班号":        ColFlightNumber,
	"计划起飞机场":     ColDepartureAirport,
	"计划落地机场":     ColArrivalAirport,
	"计划起飞时间":     ColScheduledDeparture,
	"预计起飞时间":     ColExpectedDeparture,
	"预计落地时间":     ColExpectedArrival,
	"CTOT":        ColCTOT,
	"计划飞行时长(分钟)": ColFlightDurationMinute,
	"旅客人数(订座)":   ColPassengerCount,

	// A handful of common English variants seen across operators.
	"flight_no":      ColFlightNumber,
	"origin":         ColDepartureAirport,
	"destination":    ColArrivalAirport,
	"std":            ColScheduledDeparture,
	"etd":            ColExpectedDeparture,
	"eta":            ColExpectedArrival,
	"duration_min":   ColFlightDurationMinute,
	"passengers":     ColPassengerCount,
}

// requiredColumns must be present (under either a canonical key or an
// alias) in at least one input row, or Normalize fails fast with
// InputShapeError rather than silently producing a half-empty table.
var requiredColumns = []string{ColFlightNumber, ColDepartureAirport, ColArrivalAirport}

// canonicalKey resolves a raw column name to its canonical form.
func canonicalKey(raw string) string {
	if canon, ok := aliases[raw]; ok {
		return canon
	}
	return raw
}
