package optimize

import (
	"errors"
	"fmt"

	"github.com/kilianp07/carrierassign/core/model"
)

var (
	// ErrEmptyProblem is returned when there is nothing to formulate or solve.
	ErrEmptyProblem = errors.New("optimize: empty problem")
	// ErrDuplicateVar is returned when a (shipment, carrier) pair is declared twice.
	ErrDuplicateVar = errors.New("optimize: duplicate variable")
	// ErrInvalidConstraint is returned for malformed constraints.
	ErrInvalidConstraint = errors.New("optimize: invalid constraint")
	// ErrUnsupportedProblem is returned by solvers that cannot handle the
	// problem structure.
	ErrUnsupportedProblem = errors.New("optimize: unsupported problem structure")

	// ErrNotOptimal is returned when the solver ends without an optimal
	// solution. No assignment is produced in that case.
	ErrNotOptimal = fmt.Errorf("%w: no optimal solution", model.ErrSolver)
	// ErrSolverTimeout is returned when the solve exceeds its deadline.
	ErrSolverTimeout = fmt.Errorf("%w: timeout", ErrNotOptimal)

	// ErrFractional is returned when a variable is neither 0 nor 1 within
	// tolerance.
	ErrFractional = fmt.Errorf("%w: fractional variable value", model.ErrExtraction)
	// ErrInconsistentAssignment is returned when a shipment resolves to zero
	// or several carriers.
	ErrInconsistentAssignment = fmt.Errorf("%w: shipment must have exactly one carrier", model.ErrExtraction)
)
