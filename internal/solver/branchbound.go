package solver

import (
	"math"
	"time"
)

// bbNode is one branch-and-bound frontier node: a set of tightened
// variable bounds relative to the model's own declared bounds.
type bbNode struct {
	ov bounds
}

func (n bbNode) clone() bounds {
	c := make(bounds, len(n.ov))
	for k, v := range n.ov {
		c[k] = v
	}
	return c
}

// branchAndBound explores the integer variables of m by branching on the
// most-negative-index fractional variable at each node (deterministic,
// so repeated solves of the same model return the same optimum). It
// stops exploring once deadline passes or maxNodes nodes have been
// expanded, in which case the best incumbent found so far (if any) is
// returned with timedOut=true.
func branchAndBound(m *Model, deadline time.Time, maxNodes int) (status lpStatus, values []float64, objective float64, timedOut bool) {
	hasIntegers := false
	for _, v := range m.Vars {
		if v.Kind == Integer {
			hasIntegers = true
			break
		}
	}

	stack := []bbNode{{ov: bounds{}}}
	found := false
	var incumbentValues []float64
	incumbentObj := math.Inf(1)
	nodes := 0

	for len(stack) > 0 {
		if time.Now().After(deadline) || nodes >= maxNodes {
			timedOut = true
			break
		}
		nodes++

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		st, vals, obj := solveLP(m, node.ov)
		if st == lpInfeasible {
			continue
		}
		if st == lpUnbounded {
			return lpUnbounded, nil, 0, false
		}
		if found && obj >= incumbentObj-1e-7 {
			continue // relaxation can't beat the incumbent; prune
		}

		if !hasIntegers {
			return lpOptimal, vals, obj, false
		}

		fracVar := -1
		for i, v := range m.Vars {
			if v.Kind != Integer {
				continue
			}
			val := vals[i]
			if math.Abs(val-math.Round(val)) > integerTol {
				fracVar = i
				break
			}
		}

		if fracVar == -1 {
			found = true
			incumbentObj = obj
			incumbentValues = vals
			continue
		}

		lo, hi := node.ov.of(m, fracVar)
		val := vals[fracVar]
		floorChild := node.clone()
		floorChild[fracVar] = [2]float64{lo, math.Floor(val)}
		ceilChild := node.clone()
		ceilChild[fracVar] = [2]float64{math.Ceil(val), hi}

		stack = append(stack, bbNode{ov: ceilChild}, bbNode{ov: floorChild})
	}

	if found {
		if timedOut {
			return lpOptimal, incumbentValues, incumbentObj, true
		}
		return lpOptimal, incumbentValues, incumbentObj, false
	}
	if timedOut {
		return lpInfeasible, nil, 0, true // caller distinguishes "no incumbent yet" via timedOut
	}
	return lpInfeasible, nil, 0, false
}
