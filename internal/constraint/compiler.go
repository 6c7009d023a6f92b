package constraint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/modelapi"
	"github.com/Hehua-Fan/flight-adjustment-system/pkg/util"
)

// Compile turns a raw Bundle into the Emitters BuildModel lays into the
// model, plus stats on everything it silently skipped. It never returns
// an error: a malformed individual rule is dropped and counted rather
// than failing the whole solve.
func Compile(bundle Bundle, flights flight.Table) ([]Emitter, CompileStats) {
	var stats CompileStats
	var emitters []Emitter

	emitters = append(emitters, compileCurfews(bundle.AirportRestriction, flights, &stats)...)
	emitters = append(emitters, compileCapacity(bundle.AirportCapacity, flights, &stats)...)
	emitters = append(emitters, compileQuota(bundle.Quota, flights, &stats)...)

	stats.EmittedConstraints = len(emitters)
	return emitters, stats
}

func compileCurfews(rules []CurfewRule, flights flight.Table, stats *CompileStats) []Emitter {
	var out []Emitter
	for _, r := range rules {
		stats.TotalRules++
		if r.RestrictionType != "AIRPORT_CURFEW" {
			stats.SkippedNonCurfew++
			continue
		}
		startMin, err := util.ParseHHMM(r.StartTimeOfDay)
		if err != nil {
			stats.MalformedCurfew++
			continue
		}
		endMin, err := util.ParseHHMM(r.EndTimeOfDay)
		if err != nil {
			stats.MalformedCurfew++
			continue
		}
		if startMin <= endMin {
			// Only wrap-around (overnight) curfews are enforced; a
			// same-day window is not a curfew in this model.
			stats.NonWrapAroundCurfew++
			continue
		}
		priority := modelapi.ParsePriority(r.Priority)

		for _, f := range flights.Flights() {
			switch {
			case f.DepartureAirport == r.AirportCode:
				out = append(out, compiledCurfew{
					label:    curfewLabel(f.FlightID, r.AirportCode, modelapi.RoleDepMod),
					flightID: f.FlightID,
					timeRole: modelapi.RoleDepMod,
					startMin: startMin,
					endMin:   endMin,
					priority: priority,
				})
			case f.ArrivalAirport == r.AirportCode:
				out = append(out, compiledCurfew{
					label:    curfewLabel(f.FlightID, r.AirportCode, modelapi.RoleArrMod),
					flightID: f.FlightID,
					timeRole: modelapi.RoleArrMod,
					startMin: startMin,
					endMin:   endMin,
					priority: priority,
				})
			}
		}
	}
	return out
}

func compileCapacity(cap CapacityRule, flights flight.Table, stats *CompileStats) []Emitter {
	var out []Emitter
	// Deterministic iteration order: sort airports and window keys.
	airports := make([]string, 0, len(cap))
	for ap := range cap {
		airports = append(airports, ap)
	}
	sort.Strings(airports)

	for _, ap := range airports {
		winmap := cap[ap]
		keys := make([]string, 0, len(winmap))
		for k := range winmap {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			details := winmap[key]
			startMin, endMin, ok := parseCapacityWindowKey(key)
			if !ok {
				stats.MalformedCapacityKey++
				continue
			}
			var inWindow []string
			for _, f := range flights.Flights() {
				if f.DepartureAirport != ap {
					continue
				}
				if f.TargetDepMinOfDay >= startMin && f.TargetDepMinOfDay < endMin {
					inWindow = append(inWindow, f.FlightID)
				}
			}
			if len(inWindow) == 0 {
				continue
			}
			priority := modelapi.ParsePriority(details.Priority)
			out = append(out, compiledCapacity{
				label:    fmt.Sprintf("capacity_%s_%s", ap, sanitizeLabel(key)),
				flights:  inWindow,
				limit:    details.Limit,
				priority: priority,
			})
		}
	}
	return out
}

// parseCapacityWindowKey accepts both "HH:MM-HH:MM" and "HH:MM(+MM)",
// returning start/end minute-of-day boundaries. Only the hour component
// of each HH:MM boundary is read, not the minute (matching the original
// tool), so the start is always on the hour; in the "(+MM)" form the end
// is that start plus the duration in minutes.
func parseCapacityWindowKey(key string) (startMin, endMin int, ok bool) {
	if strings.Contains(key, "-") && !strings.Contains(key, "(+") {
		parts := strings.SplitN(key, "-", 2)
		if len(parts) != 2 {
			return 0, 0, false
		}
		sh, ok1 := parseHourPrefix(parts[0])
		eh, ok2 := parseHourPrefix(parts[1])
		if !ok1 || !ok2 {
			return 0, 0, false
		}
		return sh * 60, eh * 60, true
	}
	if strings.Contains(key, "(+") && strings.Contains(key, ")") {
		startStr := strings.SplitN(key, "(", 2)[0]
		sh, ok1 := parseHourPrefix(startStr)
		durStr := strings.TrimSuffix(strings.SplitN(key, "(+", 2)[1], ")")
		dur, err := strconv.Atoi(durStr)
		if !ok1 || err != nil {
			return 0, 0, false
		}
		return sh * 60, sh*60 + dur, true
	}
	return 0, 0, false
}

func parseHourPrefix(s string) (int, bool) {
	s = strings.TrimSpace(s)
	idx := strings.Index(s, ":")
	if idx < 0 {
		return 0, false
	}
	h, err := strconv.Atoi(s[:idx])
	if err != nil {
		return 0, false
	}
	return h, true
}

func sanitizeLabel(s string) string {
	r := strings.NewReplacer("-", "_", ":", "_", "(", "_", ")", "_", "+", "p")
	return r.Replace(s)
}

func compileQuota(q QuotaBundle, flights flight.Table, stats *CompileStats) []Emitter {
	var out []Emitter
	allIDs := make([]string, 0, flights.Len())
	for _, f := range flights.Flights() {
		allIDs = append(allIDs, f.FlightID)
	}

	if q.Cancel != nil {
		stats.TotalRules++
		out = append(out, compiledQuota{
			label:    "quota_cancel",
			role:     modelapi.RoleCancel,
			flights:  allIDs,
			max:      q.Cancel.Max,
			priority: modelapi.ParsePriority(q.Cancel.Priority),
		})
	}
	if q.Swap != nil {
		stats.TotalRules++
		out = append(out, compiledQuota{
			label:    "quota_swap",
			role:     modelapi.RoleSwap,
			flights:  allIDs,
			max:      q.Swap.Max,
			priority: modelapi.ParsePriority(q.Swap.Priority),
		})
	}
	return out
}
