// Package optimize formulates and solves the shipment to carrier assignment
// as a binary linear program.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/carrierassign/core/logger"
	"github.com/kilianp07/carrierassign/core/model"
)

// Result is a solved and decoded assignment.
type Result struct {
	Assignment  model.Assignment
	Objective   float64
	Sense       Sense
	Status      Status
	Variables   int
	Constraints int
	Duration    time.Duration
}

// Optimizer runs formulate → solve → extract. It keeps no state between
// calls; every call builds its own model.
type Optimizer struct {
	solver Solver
	sense  Sense
	tol    float64
	log    logger.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithSense sets the objective direction.
func WithSense(s Sense) Option { return func(o *Optimizer) { o.sense = s } }

// WithTolerance sets the integrality tolerance used during extraction.
func WithTolerance(tol float64) Option { return func(o *Optimizer) { o.tol = tol } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.log = l
		}
	}
}

// New returns an Optimizer using solver, or a SimplexSolver when solver is nil.
func New(solver Solver, opts ...Option) *Optimizer {
	if solver == nil {
		solver = NewSimplexSolver()
	}
	o := &Optimizer{solver: solver, sense: DefaultSense, tol: DefaultTolerance, log: logger.Nop{}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sense returns the configured objective direction.
func (o *Optimizer) Sense() Sense { return o.sense }

// Optimize assigns every shipment to exactly one scored carrier. It returns
// ErrNotOptimal (or ErrSolverTimeout when ctx expired) if the solver does not
// reach an optimal solution, and an extraction error if the solution does not
// decode cleanly. No partial assignment is ever returned.
func (o *Optimizer) Optimize(ctx context.Context, shipments []model.Shipment, scores model.Scores) (*Result, error) {
	m, err := Formulate(shipments, scores, o.sense)
	if err != nil {
		return nil, fmt.Errorf("formulate: %w", err)
	}
	o.log.Debugw("model formulated", map[string]any{
		"variables":   m.NumVars,
		"constraints": len(m.Constraints),
		"sense":       o.sense.String(),
	})

	start := time.Now()
	sol, err := o.solver.Solve(ctx, &m.Problem)
	elapsed := time.Since(start)
	if err != nil || !sol.IsOptimal() {
		o.log.Errorf("solve failed after %s: status=%s err=%v", elapsed, sol.Status, err)
		return nil, solveError(ctx, sol.Status, err)
	}
	// A solver that finished past the deadline still counts as timed out.
	if ctx.Err() != nil {
		o.log.Errorf("solve finished after its deadline (%s)", elapsed)
		return nil, solveError(ctx, sol.Status, nil)
	}

	asn, err := Extract(m, sol, o.tol)
	if err != nil {
		return nil, err
	}
	o.log.Infof("solved %d shipments over %d carriers in %s, objective %.6f", len(asn), scores.Len(), elapsed, sol.Objective)
	return &Result{
		Assignment:  asn,
		Objective:   sol.Objective,
		Sense:       o.sense,
		Status:      sol.Status,
		Variables:   m.NumVars,
		Constraints: len(m.Constraints),
		Duration:    elapsed,
	}, nil
}

func solveError(ctx context.Context, st Status, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrSolverTimeout, ctxErr)
		}
		return fmt.Errorf("%w: %w", ErrNotOptimal, ctxErr)
	}
	if err != nil {
		return fmt.Errorf("%w: status %s: %w", ErrNotOptimal, st, err)
	}
	return fmt.Errorf("%w: status %s", ErrNotOptimal, st)
}
