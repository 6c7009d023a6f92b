// Package solver is a small, self-contained mixed-integer linear
// programming engine: a bounded-variable simplex for the LP relaxation
// and a branch-and-bound search over the integer (binary, in practice)
// variables, behind a narrow {build, add_var, add_linear_constraint,
// set_objective, solve, get_value} interface. No suitable MILP/LP
// library surfaced anywhere in the retrieval pack (see DESIGN.md), so
// this is written from scratch rather than wired to a third party.
package solver

import "math"

// Kind distinguishes a continuous decision variable from an integer one.
// The engine only ever declares Binary integers (bounds [0,1]), but
// Branch-and-bound here works for any finite integer bounds.
type Kind int

const (
	Continuous Kind = iota
	Integer
)

// Sense is the relational operator of a linear constraint.
type Sense int

const (
	LE Sense = iota // <=
	GE              // >=
	EQ              // ==
)

// Variable is a single decision variable: x in [Lower, Upper], optionally
// restricted to integer values.
type Variable struct {
	Name  string
	Lower float64
	Upper float64 // math.Inf(1) for "no upper bound"
	Kind  Kind
}

// Expr is a linear expression: Constant + sum(Coeffs[v] * x_v).
type Expr struct {
	Coeffs   map[int]float64
	Constant float64
}

// NewExpr returns an empty linear expression.
func NewExpr() Expr {
	return Expr{Coeffs: make(map[int]float64)}
}

// Term adds coeff*x[v] to the expression and returns it for chaining.
func (e Expr) Term(v int, coeff float64) Expr {
	if coeff == 0 {
		return e
	}
	e.Coeffs[v] += coeff
	return e
}

// Plus adds a constant term to the expression and returns it for chaining.
func (e Expr) Plus(c float64) Expr {
	e.Constant += c
	return e
}

// Constraint is a single linear inequality or equality: Expr Sense RHS.
type Constraint struct {
	Expr  Expr
	Sense Sense
	RHS   float64
	Name  string
}

// Model is the MILP being built up by a model builder and later handed
// to Solve. Variable indices are stable for the lifetime of the Model
// and are what Outcome.Values is keyed by.
type Model struct {
	Vars        []Variable
	Constraints []Constraint
	Objective   Expr
}

// NewModel returns an empty model ready for AddVar/AddConstraint calls.
func NewModel() *Model {
	return &Model{Objective: NewExpr()}
}

// AddVar declares a new decision variable and returns its index.
func (m *Model) AddVar(name string, lower, upper float64, kind Kind) int {
	m.Vars = append(m.Vars, Variable{Name: name, Lower: lower, Upper: upper, Kind: kind})
	return len(m.Vars) - 1
}

// AddBinary is a convenience wrapper for AddVar(name, 0, 1, Integer).
func (m *Model) AddBinary(name string) int {
	return m.AddVar(name, 0, 1, Integer)
}

// AddContinuous is a convenience wrapper for AddVar(name, lower, upper, Continuous).
func (m *Model) AddContinuous(name string, lower, upper float64) int {
	return m.AddVar(name, lower, upper, Continuous)
}

// AddConstraint appends a linear constraint to the model.
func (m *Model) AddConstraint(name string, expr Expr, sense Sense, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Expr: expr, Sense: sense, RHS: rhs, Name: name})
}

// SetObjective replaces the model's (minimization) objective expression.
func (m *Model) SetObjective(expr Expr) {
	m.Objective = expr
}

// NumVars reports how many variables have been declared.
func (m *Model) NumVars() int {
	return len(m.Vars)
}

const infeasTol = 1e-6
const integerTol = 1e-6

func isInf(f float64) bool {
	return math.IsInf(f, 1) || math.IsInf(f, -1)
}
