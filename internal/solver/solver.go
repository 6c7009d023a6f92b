package solver

import "time"

// Status classifies how a Solve call terminated.
type Status int

const (
	Optimal Status = iota
	FeasibleSuboptimal
	Infeasible
	Unbounded
	Error
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case FeasibleSuboptimal:
		return "feasible_suboptimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	default:
		return "error"
	}
}

// Options configures a single Solve call: a solver label, a wall-clock
// time limit, and an (currently advisory) MIP gap tolerance, mirroring
// the parameters an external MILP backend would take.
type Options struct {
	SolverName string
	TimeLimit  time.Duration
	MIPGap     float64
}

// Outcome is the result of one Solve call: a termination Status plus,
// when a solution exists, the variable values and objective.
type Outcome struct {
	Status    Status
	Reason    string
	Objective float64
	Values    []float64 // indexed like Model.Vars; nil unless a solution was found
}

// GetValue reads back a single variable's value from a solved Outcome.
// It panics if called on an Outcome with no Values, matching the
// model-handle lifecycle contract (callers only call GetValue after
// checking Outcome.Status).
func (o Outcome) GetValue(v int) float64 {
	return o.Values[v]
}

const defaultMaxNodes = 200000

// Solve runs the model's MILP (or plain LP, if it declares no integer
// variables) to termination or until opts.TimeLimit elapses.
func Solve(m *Model, opts Options) Outcome {
	timeLimit := opts.TimeLimit
	if timeLimit <= 0 {
		timeLimit = 60 * time.Second
	}
	deadline := time.Now().Add(timeLimit)

	status, values, obj, timedOut := branchAndBound(m, deadline, defaultMaxNodes)

	switch status {
	case lpUnbounded:
		return Outcome{Status: Unbounded, Reason: "unbounded"}
	case lpInfeasible:
		if timedOut {
			return Outcome{Status: Error, Reason: "timeout"}
		}
		return Outcome{Status: Infeasible, Reason: "infeasible"}
	case lpOptimal:
		if timedOut {
			return Outcome{Status: FeasibleSuboptimal, Reason: "time_limit", Objective: obj, Values: values}
		}
		return Outcome{Status: Optimal, Reason: "optimal", Objective: obj, Values: values}
	default:
		return Outcome{Status: Error, Reason: "internal solver error"}
	}
}
