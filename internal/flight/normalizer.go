package flight

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var carrierPrefix = regexp.MustCompile(`^([A-Z]{1,3})`)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalize converts a raw, possibly bilingual flight table into the
// canonical Table. It never fails a single malformed row out of spite:
// rows missing a derivable target departure time are dropped (and
// counted), everything else is patched with the documented fallback
// chain. It only returns an error when the input shape itself is
// unusable.
func Normalize(rows []RawRecord) (Table, Stats, error) {
	stats := Stats{InputRows: len(rows)}

	if err := checkRequiredColumns(rows); err != nil {
		return Table{}, stats, err
	}

	type pending struct {
		raw               RawRecord
		flightID          string
		flightNumber      string
		departureAirport  string
		arrivalAirport    string
		scheduledDeparture time.Time
		targetDeparture   time.Time
		durationMinutes   int
		durationKnown     bool
		revenue           float64
	}

	pendings := make([]pending, 0, len(rows))
	var durationSum float64
	var durationCount int

	for _, row := range rows {
		target, ok := deriveTargetDeparture(row)
		if !ok {
			stats.DroppedMissingDepart++
			continue
		}
		sched, ok := getTime(row, ColScheduledDeparture)
		if !ok {
			sched = target
		}

		p := pending{
			raw:                row,
			flightNumber:       getStringOr(row, ColFlightNumber, ""),
			departureAirport:   getStringOr(row, ColDepartureAirport, ""),
			arrivalAirport:     getStringOr(row, ColArrivalAirport, ""),
			scheduledDeparture: sched.Truncate(time.Second),
			targetDeparture:    target.Truncate(time.Second),
		}
		if fid, ok := getString(row, ColFlightID); ok && fid != "" {
			p.flightID = fid
		}
		if mins, ok := deriveDuration(row); ok {
			p.durationMinutes = mins
			p.durationKnown = true
			durationSum += float64(mins)
			durationCount++
		}
		pendings = append(pendings, p)
	}

	// Second pass: fill flights whose duration wasn't directly derivable
	// with the mean of the flights that did supply one, else the default.
	meanDuration := DefaultDurationMinutes
	if durationCount > 0 {
		meanDuration = int(durationSum / float64(durationCount))
	}
	for i := range pendings {
		if pendings[i].durationKnown {
			continue
		}
		if durationCount > 0 {
			pendings[i].durationMinutes = meanDuration
			stats.DurationsFilledFromMean++
		} else {
			pendings[i].durationMinutes = DefaultDurationMinutes
			stats.DurationsFilledDefault++
		}
	}

	// flight_id assignment: keep incoming ids verbatim unless any row
	// lacks one or any is duplicated, in which case every row is
	// deterministically reassigned F1, F2, ... in input order.
	seen := map[string]int{}
	missingID := false
	dup := false
	for _, p := range pendings {
		if p.flightID == "" {
			missingID = true
			continue
		}
		seen[p.flightID]++
		if seen[p.flightID] > 1 {
			dup = true
		}
	}
	reassign := missingID || dup
	if dup {
		stats.DuplicateIDsReassigned = true
	}

	table := Table{Order: make([]string, 0, len(pendings)), ByID: make(map[string]Flight, len(pendings))}
	for i, p := range pendings {
		id := p.flightID
		if reassign {
			id = fmt.Sprintf("F%d", i+1)
		}
		revenue := deriveRevenue(p.raw)
		baseDelay := p.targetDeparture.Sub(p.scheduledDeparture).Minutes()

		f := Flight{
			FlightID:              id,
			FlightNumber:          p.flightNumber,
			CarrierCode:           deriveCarrierCode(p.flightNumber),
			DepartureAirport:      p.departureAirport,
			ArrivalAirport:        p.arrivalAirport,
			ScheduledDeparture:    p.scheduledDeparture,
			TargetDeparture:       p.targetDeparture,
			FlightDurationMinutes: p.durationMinutes,
			Revenue:               revenue,
			TargetDepMinOfDay:     p.targetDeparture.Hour()*60 + p.targetDeparture.Minute(),
			BaseDelayMinutes:      baseDelay,
		}
		table.Order = append(table.Order, id)
		table.ByID[id] = f
	}

	return table, stats, nil
}

func checkRequiredColumns(rows []RawRecord) error {
	present := map[string]bool{}
	for _, row := range rows {
		for k := range row {
			present[canonicalKey(k)] = true
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &InputShapeError{Missing: missing}
	}
	return nil
}

// deriveTargetDeparture follows the priority chain: an already-canonical
// target_departure (round-trip case), else CTOT, else expected
// departure, else scheduled departure.
func deriveTargetDeparture(row RawRecord) (time.Time, bool) {
	for _, col := range []string{ColTargetDeparture, ColCTOT, ColExpectedDeparture, ColScheduledDeparture} {
		if t, ok := getTime(row, col); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// deriveDuration returns a directly-known duration: an explicit
// flight_duration_minutes, or one computed from expected arrival minus
// expected departure.
func deriveDuration(row RawRecord) (int, bool) {
	if v, ok := getFloat(row, ColFlightDurationMinute); ok && v > 0 {
		return int(v), true
	}
	dep, depOK := getTime(row, ColExpectedDeparture)
	arr, arrOK := getTime(row, ColExpectedArrival)
	if depOK && arrOK {
		mins := arr.Sub(dep).Minutes()
		if mins > 0 {
			return int(mins), true
		}
	}
	return 0, false
}

// deriveRevenue implements the revenue fallback chain: an already-
// canonical positive revenue passes through; else passenger count times
// the fixed per-passenger revenue; else, if a passenger count was
// supplied but unusable, the narrower fallback; else the no-data
// fallback.
func deriveRevenue(row RawRecord) float64 {
	if v, ok := getFloat(row, ColRevenue); ok && v > 0 {
		return v
	}
	for k, v := range row {
		if canonicalKey(k) != ColPassengerCount {
			continue
		}
		if n, ok := toFloat(v); ok && n >= 0 {
			return n * RevenuePerPassenger
		}
		return DefaultRevenueMalformed
	}
	return DefaultRevenueNoData
}

func deriveCarrierCode(flightNumber string) string {
	m := carrierPrefix.FindStringSubmatch(strings.ToUpper(flightNumber))
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

func getString(row RawRecord, canon string) (string, bool) {
	for k, v := range row {
		if canonicalKey(k) != canon {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func getStringOr(row RawRecord, canon, fallback string) string {
	if s, ok := getString(row, canon); ok {
		return s
	}
	return fallback
}

func getFloat(row RawRecord, canon string) (float64, bool) {
	for k, v := range row {
		if canonicalKey(k) != canon {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func getTime(row RawRecord, canon string) (time.Time, bool) {
	for k, v := range row {
		if canonicalKey(k) != canon {
			continue
		}
		switch t := v.(type) {
		case time.Time:
			if t.IsZero() {
				continue
			}
			return t, true
		case string:
			if parsed, ok := parseTimeString(t); ok {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
