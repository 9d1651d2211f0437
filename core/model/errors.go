package model

import "errors"

// Error kinds. Package level errors wrap one of these so callers can classify
// failures with errors.Is.
var (
	// ErrInput covers malformed or empty datasets.
	ErrInput = errors.New("input error")
	// ErrScoring is returned when a carrier cannot be scored.
	ErrScoring = errors.New("scoring error")
	// ErrSolver means the solver did not reach an optimal solution.
	ErrSolver = errors.New("solver error")
	// ErrExtraction means the solved variables do not decode to exactly one
	// carrier per shipment.
	ErrExtraction = errors.New("extraction error")
)
