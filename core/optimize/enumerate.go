package optimize

import (
	"context"
	"fmt"
)

// EnumerationSolver solves programs made only of independent exactly-one
// constraints (every coefficient 1, right-hand side 1) by picking the best
// variable of each block. Ties go to the lowest variable index, which is the
// first carrier in sorted order for assignment models.
type EnumerationSolver struct{}

// Solve implements Solver.
func (EnumerationSolver) Solve(ctx context.Context, p *Problem) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{Status: StatusError}, err
	}
	x := make([]float64, p.NumVars)
	for i, b := range p.Blocks() {
		if err := ctx.Err(); err != nil {
			return Solution{Status: StatusNotSolved}, err
		}
		if len(b.Constraints) == 0 {
			solveFree(p, b, x)
			continue
		}
		if !isExactlyOne(p, b) {
			return Solution{Status: StatusError}, fmt.Errorf("%w: block %d is not an exactly-one constraint", ErrUnsupportedProblem, i)
		}
		best := b.Vars[0]
		for _, v := range b.Vars[1:] {
			if cost(p.Sense, p.Objective[v]) < cost(p.Sense, p.Objective[best]) {
				best = v
			}
		}
		x[best] = 1
	}
	return Solution{Status: StatusOptimal, Values: x, Objective: p.Evaluate(x)}, nil
}

func isExactlyOne(p *Problem, b Block) bool {
	if len(b.Constraints) != 1 {
		return false
	}
	con := p.Constraints[b.Constraints[0]]
	if con.RHS != 1 || len(con.Vars) != len(b.Vars) {
		return false
	}
	for _, c := range con.Coeffs {
		if c != 1 {
			return false
		}
	}
	return true
}
