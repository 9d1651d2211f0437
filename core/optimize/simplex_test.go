package optimize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

func assignmentModel(t *testing.T, n int, scores map[string]float64, sense Sense) *Model {
	t.Helper()
	m, err := Formulate(shipments(n), scoresOf(scores), sense)
	require.NoError(t, err)
	return m
}

func TestSimplexSolver_MatchesMonolithic(t *testing.T) {
	m := assignmentModel(t, 3, map[string]float64{"A": 0.9, "B": 0.4, "C": 0.7}, Maximize)
	dec, err := NewSimplexSolver().Solve(context.Background(), &m.Problem)
	require.NoError(t, err)
	mono, err := (&SimplexSolver{Monolithic: true}).Solve(context.Background(), &m.Problem)
	require.NoError(t, err)
	assert.InDelta(t, dec.Objective, mono.Objective, 1e-9)
	assert.InDelta(t, 2.7, dec.Objective, 1e-9)
}

func TestSimplexSolver_FailureStatus(t *testing.T) {
	old := lpSimplex
	defer func() { lpSimplex = old }()

	tests := []struct {
		err  error
		want Status
	}{
		{lp.ErrInfeasible, StatusInfeasible},
		{lp.ErrUnbounded, StatusUnbounded},
		{lp.ErrSingular, StatusError},
		{errors.New("fail"), StatusError},
	}
	m := assignmentModel(t, 2, map[string]float64{"A": 1, "B": 0.5}, Minimize)
	for _, tt := range tests {
		lpSimplex = func([]float64, mat.Matrix, []float64, float64, []int) (float64, []float64, error) {
			return 0, nil, tt.err
		}
		sol, err := NewSimplexSolver().Solve(context.Background(), &m.Problem)
		assert.Equal(t, tt.want, sol.Status)
		assert.ErrorIs(t, err, tt.err)
		assert.Nil(t, sol.Values)
	}
}

func TestSimplexSolver_Overconstrained(t *testing.T) {
	p := &Problem{
		NumVars:   1,
		Objective: []float64{1},
		Constraints: []Constraint{
			{Vars: []int{0}, Coeffs: []float64{1}, RHS: 1},
			{Vars: []int{0}, Coeffs: []float64{2}, RHS: 2},
		},
	}
	sol, err := NewSimplexSolver().Solve(context.Background(), p)
	assert.Equal(t, StatusError, sol.Status)
	assert.ErrorIs(t, err, ErrUnsupportedProblem)
}

func TestSimplexSolver_Infeasible(t *testing.T) {
	// x0 + x1 == 3 cannot hold for binaries.
	p := &Problem{
		NumVars:     2,
		Objective:   []float64{1, 1},
		Constraints: []Constraint{{Vars: []int{0, 1}, Coeffs: []float64{1, 1}, RHS: 3}},
	}
	sol, err := NewSimplexSolver().Solve(context.Background(), p)
	assert.Error(t, err)
	assert.NotEqual(t, StatusOptimal, sol.Status)
}

func TestSimplexSolver_FreeVariables(t *testing.T) {
	p := &Problem{Sense: Maximize, NumVars: 2, Objective: []float64{2, -1}}
	sol, err := NewSimplexSolver().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, sol.Values)
	assert.Equal(t, 2.0, sol.Objective)
}

func TestSimplexSolver_InvalidProblem(t *testing.T) {
	sol, err := NewSimplexSolver().Solve(context.Background(), &Problem{})
	assert.Equal(t, StatusError, sol.Status)
	assert.ErrorIs(t, err, ErrEmptyProblem)
}

func TestEnumerationSolver_Unsupported(t *testing.T) {
	p := &Problem{
		NumVars:     2,
		Objective:   []float64{1, 1},
		Constraints: []Constraint{{Vars: []int{0, 1}, Coeffs: []float64{1, 2}, RHS: 1}},
	}
	sol, err := EnumerationSolver{}.Solve(context.Background(), p)
	assert.Equal(t, StatusError, sol.Status)
	assert.ErrorIs(t, err, ErrUnsupportedProblem)
}

func TestEnumerationSolver_TiesPickFirstCarrier(t *testing.T) {
	m := assignmentModel(t, 2, map[string]float64{"B": 0.5, "A": 0.5}, Maximize)
	sol, err := EnumerationSolver{}.Solve(context.Background(), &m.Problem)
	require.NoError(t, err)
	asn, err := Extract(m, sol, 0)
	require.NoError(t, err)
	assert.Equal(t, "A", asn[0])
	assert.Equal(t, "A", asn[1])
}
