package solver

import "math"

// lpStatus is the outcome of a single LP relaxation solve.
type lpStatus int

const (
	lpOptimal lpStatus = iota
	lpInfeasible
	lpUnbounded
)

// bigM is the Big-M penalty applied to artificial variables. It must
// dominate any realistic objective magnitude (penalties up to
// PENALTY_HIGH and revenues in the tens of thousands) so the simplex
// method always drives artificials to zero before considering the real
// cost terms.
const bigM = 1e9

// bounds overrides a variable's [lower, upper] pair for one branch-and-
// bound node without mutating the shared Model.
type bounds map[int][2]float64

func (b bounds) of(m *Model, v int) (lo, hi float64) {
	if ov, ok := b[v]; ok {
		return ov[0], ov[1]
	}
	vv := m.Vars[v]
	return vv.Lower, vv.Upper
}

// solveLP solves the LP relaxation of m (integrality ignored) with the
// given per-variable bound overrides, via a two-phase-free Big-M
// bounded-variable simplex. Every variable's effective upper bound (if
// finite) and the model's own linear constraints are all expressed as
// rows of a single tableau; Bland's rule is used throughout to guarantee
// termination without cycling.
func solveLP(m *Model, ov bounds) (status lpStatus, values []float64, objective float64) {
	n := len(m.Vars)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := range m.Vars {
		lower[i], upper[i] = ov.of(m, i)
	}

	// Row list: original constraints, shifted so each variable y_i = x_i -
	// lower_i >= 0, plus one explicit row per finite upper bound.
	type row struct {
		coeffs map[int]float64 // over shifted vars y_i
		sense  Sense
		rhs    float64
	}
	var rows []row

	shiftConstant := func(e Expr) float64 {
		c := e.Constant
		for v, coeff := range e.Coeffs {
			c += coeff * lower[v]
		}
		return c
	}

	for _, c := range m.Constraints {
		coeffs := make(map[int]float64, len(c.Expr.Coeffs))
		for v, coeff := range c.Expr.Coeffs {
			coeffs[v] = coeff
		}
		rows = append(rows, row{coeffs: coeffs, sense: c.Sense, rhs: c.RHS - shiftConstant(c.Expr)})
	}
	for i := 0; i < n; i++ {
		if !isInf(upper[i]) {
			rows = append(rows, row{coeffs: map[int]float64{i: 1}, sense: LE, rhs: upper[i] - lower[i]})
		}
	}

	numRows := len(rows)
	if numRows == 0 {
		// No constraints at all: every variable sits at its lower bound.
		values = make([]float64, n)
		obj := m.Objective.Constant
		for i := 0; i < n; i++ {
			values[i] = lower[i]
			obj += m.Objective.Coeffs[i] * lower[i]
		}
		return lpOptimal, values, obj
	}

	// Column layout: [0, n) = shifted structural vars, then one slack or
	// surplus+artificial per row, as needed.
	type extra struct {
		slack, surplus, artificial int // -1 if absent
	}
	extras := make([]extra, numRows)
	numCols := n
	for i, r := range rows {
		sense, rhs := r.sense, r.rhs
		// Normalize RHS >= 0.
		if rhs < 0 {
			for v := range r.coeffs {
				r.coeffs[v] = -r.coeffs[v]
			}
			rhs = -rhs
			switch sense {
			case LE:
				sense = GE
			case GE:
				sense = LE
			}
			rows[i].coeffs = r.coeffs
			rows[i].rhs = rhs
			rows[i].sense = sense
		}
		e := extra{slack: -1, surplus: -1, artificial: -1}
		switch sense {
		case LE:
			e.slack = numCols
			numCols++
		case GE:
			e.surplus = numCols
			numCols++
			e.artificial = numCols
			numCols++
		case EQ:
			e.artificial = numCols
			numCols++
		}
		extras[i] = e
	}

	A := make([][]float64, numRows)
	b := make([]float64, numRows)
	basis := make([]int, numRows)
	cost := make([]float64, numCols)
	for i := 0; i < n; i++ {
		cost[i] = m.Objective.Coeffs[i]
	}

	for i, r := range rows {
		A[i] = make([]float64, numCols)
		for v, coeff := range r.coeffs {
			A[i][v] = coeff
		}
		b[i] = r.rhs
		e := extras[i]
		switch {
		case e.slack != -1:
			A[i][e.slack] = 1
			basis[i] = e.slack
		case e.surplus != -1:
			A[i][e.surplus] = -1
			A[i][e.artificial] = 1
			cost[e.artificial] = bigM
			basis[i] = e.artificial
		default:
			A[i][e.artificial] = 1
			cost[e.artificial] = bigM
			basis[i] = e.artificial
		}
	}

	// Reduced-cost row, priced out against the initial (slack/artificial)
	// basis.
	objRow := make([]float64, numCols)
	copy(objRow, cost)
	objConst := 0.0
	for i := 0; i < numRows; i++ {
		bc := cost[basis[i]]
		if bc == 0 {
			continue
		}
		for j := 0; j < numCols; j++ {
			objRow[j] -= bc * A[i][j]
		}
		objConst -= bc * b[i]
	}

	const eps = 1e-9
	const maxIter = 50000
	for iter := 0; iter < maxIter; iter++ {
		entering := -1
		for j := 0; j < numCols; j++ {
			if objRow[j] < -eps {
				entering = j
				break // Bland's rule: smallest index with negative reduced cost.
			}
		}
		if entering == -1 {
			break // optimal for this tableau
		}

		leaving := -1
		bestRatio := math.Inf(1)
		for i := 0; i < numRows; i++ {
			if A[i][entering] <= eps {
				continue
			}
			ratio := b[i] / A[i][entering]
			if ratio < bestRatio-1e-12 {
				bestRatio = ratio
				leaving = i
			} else if ratio < bestRatio+1e-12 && (leaving == -1 || basis[i] < basis[leaving]) {
				leaving = i
			}
		}
		if leaving == -1 {
			return lpUnbounded, nil, 0
		}

		pivot := A[leaving][entering]
		for j := 0; j < numCols; j++ {
			A[leaving][j] /= pivot
		}
		b[leaving] /= pivot
		for i := 0; i < numRows; i++ {
			if i == leaving {
				continue
			}
			factor := A[i][entering]
			if factor == 0 {
				continue
			}
			for j := 0; j < numCols; j++ {
				A[i][j] -= factor * A[leaving][j]
			}
			b[i] -= factor * b[leaving]
		}
		factor := objRow[entering]
		if factor != 0 {
			for j := 0; j < numCols; j++ {
				objRow[j] -= factor * A[leaving][j]
			}
			objConst -= factor * b[leaving]
		}
		basis[leaving] = entering
	}

	// Infeasible if an artificial variable remains basic at a non-zero
	// value.
	for i := 0; i < numRows; i++ {
		e := extras[i]
		if e.artificial != -1 && basis[i] == e.artificial && b[i] > infeasTol {
			return lpInfeasible, nil, 0
		}
	}

	yValues := make([]float64, n)
	for i := 0; i < numRows; i++ {
		if basis[i] < n {
			yValues[basis[i]] = b[i]
		}
	}

	values = make([]float64, n)
	obj := m.Objective.Constant
	for i := 0; i < n; i++ {
		values[i] = lower[i] + yValues[i]
		obj += m.Objective.Coeffs[i] * values[i]
	}

	return lpOptimal, values, obj
}
