package optimize

import (
	"context"
	"fmt"
)

// Status is the outcome of a solve.
type Status int

const (
	StatusNotSolved Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusNotSolved:
		return "not_solved"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Solution holds the variable values found by a solver. Values and
// Objective are only meaningful when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// IsOptimal reports whether the solve reached an optimal solution.
func (s Solution) IsOptimal() bool { return s.Status == StatusOptimal }

// Solver solves a binary linear program. Implementations must not retain
// the problem after Solve returns.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (Solution, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, p *Problem) (Solution, error)

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, p *Problem) (Solution, error) { return f(ctx, p) }

// cost returns the minimisation cost of coefficient c under sense.
func cost(sense Sense, c float64) float64 {
	if sense == Maximize {
		return -c
	}
	return c
}
