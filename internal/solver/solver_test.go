package solver

import (
	"math"
	"testing"
	"time"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestSolveSimpleLP(t *testing.T) {
	m := NewModel()
	x := m.AddContinuous("x", 0, 8)
	y := m.AddContinuous("y", 0, 8)
	m.AddConstraint("min_total", NewExpr().Term(x, 1).Term(y, 1), GE, 10)
	m.SetObjective(NewExpr().Term(x, 1).Term(y, 1))

	out := Solve(m, Options{TimeLimit: time.Second})
	if out.Status != Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	if !approxEqual(out.Objective, 10) {
		t.Fatalf("objective = %v, want 10", out.Objective)
	}
	if !approxEqual(out.Values[x]+out.Values[y], 10) {
		t.Fatalf("x+y = %v, want 10", out.Values[x]+out.Values[y])
	}
}

func TestSolveBinaryKnapsackLikeChoice(t *testing.T) {
	m := NewModel()
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddConstraint("at_most_one", NewExpr().Term(x, 1).Term(y, 1), LE, 1)
	// Minimize -3x - 2y: picking x=1 is strictly better than y=1.
	m.SetObjective(NewExpr().Term(x, -3).Term(y, -2))

	out := Solve(m, Options{TimeLimit: time.Second})
	if out.Status != Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	if !approxEqual(out.Values[x], 1) || !approxEqual(out.Values[y], 0) {
		t.Fatalf("values = %v, want x=1 y=0", out.Values)
	}
	if !approxEqual(out.Objective, -3) {
		t.Fatalf("objective = %v, want -3", out.Objective)
	}
}

func TestSolveInfeasible(t *testing.T) {
	m := NewModel()
	x := m.AddContinuous("x", 0, 3)
	m.AddConstraint("lower", NewExpr().Term(x, 1), GE, 5)
	m.SetObjective(NewExpr().Term(x, 1))

	out := Solve(m, Options{TimeLimit: time.Second})
	if out.Status != Infeasible {
		t.Fatalf("status = %v, want Infeasible", out.Status)
	}
}

func TestSolveEmptyModel(t *testing.T) {
	m := NewModel()
	out := Solve(m, Options{TimeLimit: time.Second})
	if out.Status != Optimal {
		t.Fatalf("status = %v, want Optimal", out.Status)
	}
	if !approxEqual(out.Objective, 0) {
		t.Fatalf("objective = %v, want 0", out.Objective)
	}
}

func TestSolveEqualityAndEquivalentRepeatedSolve(t *testing.T) {
	m := NewModel()
	a := m.AddContinuous("a", 0, 100)
	b := m.AddContinuous("b", 0, 100)
	m.AddConstraint("tie", NewExpr().Term(a, 1).Term(b, -1), EQ, 0)
	m.AddConstraint("sum", NewExpr().Term(a, 1).Term(b, 1), GE, 20)
	m.SetObjective(NewExpr().Term(a, 2).Term(b, 2))

	out1 := Solve(m, Options{TimeLimit: time.Second})
	out2 := Solve(m, Options{TimeLimit: time.Second})
	if out1.Status != Optimal || out2.Status != Optimal {
		t.Fatalf("expected both solves optimal, got %v / %v", out1.Status, out2.Status)
	}
	if !approxEqual(out1.Objective, out2.Objective) {
		t.Fatalf("repeated solve objective mismatch: %v vs %v", out1.Objective, out2.Objective)
	}
	if !approxEqual(out1.Values[a], out1.Values[b]) {
		t.Fatalf("a != b: %v vs %v", out1.Values[a], out1.Values[b])
	}
}
