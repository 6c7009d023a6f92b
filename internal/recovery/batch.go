package recovery

import (
	"context"
	"fmt"

	"github.com/mohae/deepcopy"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/constraint"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/solver"
	"github.com/Hehua-Fan/flight-adjustment-system/pkg/util"
)

// Notifier receives progress events as a batch run advances. It is an
// optional, narrow collaborator — BatchSolve works identically with a
// nil Notifier. internal/stream's websocket broadcaster implements it.
type Notifier interface {
	NotifyProgress(index, total int, weights WeightVector, status string)
}

// BatchSolve runs one model build-solve-extract cycle per weight vector.
// Runs are independent: a panic or solver failure in one run is caught
// and recorded as that run's SolverError outcome, never aborting the
// rest of the batch. The returned slice preserves the input weight-vector
// order regardless of how long any individual run takes. ctx is only
// checked at run boundaries — an in-flight solve is never interrupted
// mid-call.
func BatchSolve(ctx context.Context, flights flight.Table, bundle constraint.Bundle, weightVectors []WeightVector, costs CostParams, limits SolveLimits, notifier Notifier) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(weightVectors))

	for i, w := range weightVectors {
		runLabel := fmt.Sprintf("run %d/%d", i+1, len(weightVectors))
		outcomes[i] = BatchOutcome{Index: i, Weights: w}

		select {
		case <-ctx.Done():
			outcomes[i].Status = solver.Error.String()
			outcomes[i].Reason = ctx.Err().Error()
			util.LogWithLabel(runLabel, "cancelled: %s", outcomes[i].Reason)
			notify(notifier, i, len(weightVectors), w, outcomes[i].Status)
			continue
		default:
		}

		runFlights := deepcopy.Copy(flights).(flight.Table)
		runBundle := deepcopy.Copy(bundle).(constraint.Bundle)

		status, reason, table, compileStats := runOne(runFlights, runBundle, w, costs, limits)
		outcomes[i].Status = status
		outcomes[i].Reason = reason
		outcomes[i].Table = table
		outcomes[i].CompileStats = compileStats
		util.LogWithLabel(runLabel, "status=%s reason=%s", status, reason)
		notify(notifier, i, len(weightVectors), w, status)
	}

	return outcomes
}

func runOne(flights flight.Table, bundle constraint.Bundle, weights WeightVector, costs CostParams, limits SolveLimits) (status, reason string, table *ResultTable, compileStats constraint.CompileStats) {
	defer func() {
		if r := recover(); r != nil {
			status = solver.Error.String()
			reason = fmt.Sprintf("solver error: %v", r)
			table = nil
		}
	}()

	h := BuildModel(flights, bundle, weights, costs, limits)
	compileStats = h.CompileStats()
	outcome := Solve(h, limits)
	table = ExtractResults(h, outcome)
	return outcome.Status.String(), outcome.Reason, table, compileStats
}

func notify(n Notifier, index, total int, weights WeightVector, status string) {
	if n == nil {
		return
	}
	n.NotifyProgress(index, total, weights, status)
}
