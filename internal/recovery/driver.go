package recovery

import (
	"github.com/Hehua-Fan/flight-adjustment-system/internal/solver"
)

// Solve invokes the MILP engine on a built model. The solver backend
// sits behind a narrow interface; swapping it for a stronger external
// solver never touches the builder, compiler, or extractor.
func Solve(h *ModelHandle, limits SolveLimits) solver.Outcome {
	return solver.Solve(h.Model, solver.Options{
		SolverName: limits.SolverName,
		TimeLimit:  limits.TimeLimit,
		MIPGap:     limits.MIPGap,
	})
}
