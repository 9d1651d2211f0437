package optimize

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// DefaultSimplexTol is the tolerance handed to the simplex routine.
	DefaultSimplexTol = 1e-10
	// MaxMonolithicVars bounds the problem size accepted in monolithic mode.
	// The single dense tableau grows quadratically and the simplex call
	// cannot be interrupted, so larger problems must be decomposed.
	MaxMonolithicVars = 64
)

// lpSimplex points to the simplex routine. Tests override it to simulate
// solver failures.
var lpSimplex = lp.Simplex

// SimplexSolver solves the LP relaxation 0 <= x <= 1 of a binary program
// with the gonum simplex implementation. Exactly-one-carrier constraints
// are totally unimodular, so the vertex returned by the simplex is integral.
//
// Unless Monolithic is set, the problem is split into independent blocks
// which are solved one after the other; the context is checked between
// blocks. Monolithic mode solves one tableau and is limited to
// MaxMonolithicVars variables.
type SimplexSolver struct {
	Tol        float64
	Monolithic bool
}

// NewSimplexSolver returns a decomposing simplex solver.
func NewSimplexSolver() *SimplexSolver {
	return &SimplexSolver{Tol: DefaultSimplexTol}
}

// Solve implements Solver.
func (s *SimplexSolver) Solve(ctx context.Context, p *Problem) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{Status: StatusError}, err
	}
	var blocks []Block
	if s.Monolithic {
		if p.NumVars > MaxMonolithicVars {
			return Solution{Status: StatusError}, fmt.Errorf("%w: monolithic mode takes at most %d variables, got %d",
				ErrUnsupportedProblem, MaxMonolithicVars, p.NumVars)
		}
		all := Block{Vars: make([]int, p.NumVars), Constraints: make([]int, len(p.Constraints))}
		for i := range all.Vars {
			all.Vars[i] = i
		}
		for i := range all.Constraints {
			all.Constraints[i] = i
		}
		blocks = []Block{all}
	} else {
		blocks = p.Blocks()
	}

	x := make([]float64, p.NumVars)
	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return Solution{Status: StatusNotSolved}, err
		}
		if st, err := s.solveBlock(p, b, x); st != StatusOptimal {
			return Solution{Status: st}, fmt.Errorf("block %d: %w", i, err)
		}
	}
	return Solution{Status: StatusOptimal, Values: x, Objective: p.Evaluate(x)}, nil
}

func (s *SimplexSolver) tol() float64 {
	if s.Tol <= 0 {
		return DefaultSimplexTol
	}
	return s.Tol
}

// solveBlock writes the optimal values of b's variables into x. The block
// is expressed in standard form with one slack per variable for the upper
// bound: rows are the block constraints followed by x_j + s_j = 1.
func (s *SimplexSolver) solveBlock(p *Problem, b Block, x []float64) (Status, error) {
	k := len(b.Vars)
	if len(b.Constraints) == 0 {
		solveFree(p, b, x)
		return StatusOptimal, nil
	}
	r := len(b.Constraints)
	if r > k {
		return StatusError, fmt.Errorf("%w: %d constraints over %d variables", ErrUnsupportedProblem, r, k)
	}

	local := make(map[int]int, k)
	for j, v := range b.Vars {
		local[v] = j
	}
	A := mat.NewDense(r+k, 2*k, nil)
	rhs := make([]float64, r+k)
	c := make([]float64, 2*k)
	for i, ci := range b.Constraints {
		con := p.Constraints[ci]
		sign := 1.0
		if con.RHS < 0 {
			sign = -1
		}
		for t, v := range con.Vars {
			j := local[v]
			A.Set(i, j, A.At(i, j)+sign*con.Coeffs[t])
		}
		rhs[i] = sign * con.RHS
	}
	for j, v := range b.Vars {
		A.Set(r+j, j, 1)
		A.Set(r+j, k+j, 1)
		rhs[r+j] = 1
		c[j] = cost(p.Sense, p.Objective[v])
	}

	_, sol, err := lpSimplex(c, A, rhs, s.tol(), nil)
	if err != nil {
		return simplexStatus(err), fmt.Errorf("simplex: %w", err)
	}
	for j, v := range b.Vars {
		x[v] = sol[j]
	}
	return StatusOptimal, nil
}

// solveFree sets unconstrained binaries to 1 when that improves the objective.
func solveFree(p *Problem, b Block, x []float64) {
	for _, v := range b.Vars {
		if cost(p.Sense, p.Objective[v]) < 0 {
			x[v] = 1
		} else {
			x[v] = 0
		}
	}
}

func simplexStatus(err error) Status {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return StatusInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return StatusUnbounded
	default:
		return StatusError
	}
}
