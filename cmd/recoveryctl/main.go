// Command recoveryctl is a scripting harness around the recovery
// engine: it loads a scenario file, normalizes its flights, runs a
// batch solve across the scenario's weight-vector sweep, and prints a
// per-run report. It is not part of the engine proper — it exists only
// to exercise the engine's entry points end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/engineconfig"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/recovery"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/stream"
)

func main() {
	configPath := flag.String("config", "configs/engine.yaml", "path to engine config YAML")
	scenarioPath := flag.String("scenario", "", "path to scenario YAML (flights + constraints + weight vectors)")
	watch := flag.Bool("watch", false, "serve batch progress over a websocket while solving")
	watchAddr := flag.String("watch-addr", ":8088", "address to serve --watch progress on")
	flag.Parse()

	if *scenarioPath == "" {
		log.Fatal("FATAL: --scenario is required")
	}

	log.Println("--- Stage 1: Load engine configuration ---")
	cfg, err := engineconfig.Load(*configPath)
	if err != nil {
		log.Fatalf("FATAL: failed to load engine config: %v", err)
	}
	costs := cfg.CostParams()
	limits := cfg.SolveLimits()
	log.Println("SUCCESS: engine configuration loaded.")

	log.Println("--- Stage 2: Load and normalize scenario ---")
	scenario, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("FATAL: failed to load scenario %q: %v", *scenarioPath, err)
	}
	flights, stats, err := flight.Normalize(scenario.rawRecords())
	if err != nil {
		log.Fatalf("FATAL: normalization failed: %v", err)
	}
	log.Printf("SUCCESS: normalized %d flight(s); %d dropped for missing departure time.", flights.Len(), stats.DroppedMissingDepart)
	if stats.DuplicateIDsReassigned {
		log.Println("NOTE: duplicate flight_id values were reassigned sequentially.")
	}

	var notifier recovery.Notifier
	if *watch {
		log.Println("--- Stage 3: Serve batch progress over websocket ---")
		broadcaster := stream.NewBroadcaster()
		notifier = broadcaster
		mux := http.NewServeMux()
		mux.HandleFunc("/progress", stream.Handler(broadcaster))
		go func() {
			if err := http.ListenAndServe(*watchAddr, mux); err != nil && err != http.ErrServerClosed {
				log.Printf("WARN: progress server stopped: %v", err)
			}
		}()
		log.Printf("Serving batch progress at ws://%s/progress", *watchAddr)
	}

	log.Println("--- Stage 4: Run batch solve ---")
	outcomes := recovery.BatchSolve(context.Background(), flights, scenario.bundle(), scenario.weightVectors(), costs, limits, notifier)
	log.Printf("SUCCESS: %d run(s) completed.", len(outcomes))

	printReport(os.Stdout, outcomes)
}

func printReport(w *os.File, outcomes []recovery.BatchOutcome) {
	p := message.NewPrinter(language.English)
	for _, o := range outcomes {
		p.Fprintf(w, "\n--- run %d (weights: cancel=%.2f delay=%.2f swap=%.2f) ---\n",
			o.Index, o.Weights.Cancel, o.Weights.Delay, o.Weights.Swap)
		if s := o.CompileStats; s.SkippedNonCurfew+s.MalformedCurfew+s.NonWrapAroundCurfew+s.MalformedCapacityKey > 0 {
			p.Fprintf(w, "  constraint compiler skipped: non_curfew=%d malformed_curfew=%d non_wrap_around=%d malformed_capacity_key=%d\n",
				s.SkippedNonCurfew, s.MalformedCurfew, s.NonWrapAroundCurfew, s.MalformedCapacityKey)
		}
		if o.Table == nil {
			p.Fprintf(w, "  no solution: status=%s reason=%s\n", o.Status, o.Reason)
			continue
		}
		cost := currency.USD.Amount(o.Table.Objective)
		p.Fprintf(w, "  objective cost: %v\n", p.Sprint(currency.Symbol(cost)))
		for _, row := range o.Table.Rows {
			adjusted := "n/a"
			if row.AdjustedDepartureTime != nil {
				adjusted = row.AdjustedDepartureTime.Format("2006-01-02 15:04")
			}
			p.Fprintf(w, "  %-10s %-10s action=%-7s delay=%3dmin adjusted_departure=%s\n",
				row.FlightNumber, row.Status, row.AdjustmentAction, row.AdditionalDelayMinutes, adjusted)
		}
		for _, v := range o.Table.SoftViolations {
			p.Fprintf(w, "  soft violation: %s = %.2f (priority %s)\n", v.Label, v.Value, v.Priority)
		}
	}
	fmt.Fprintln(w)
}
