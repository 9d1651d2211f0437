package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/carrierassign/core/factory"
	"github.com/kilianp07/carrierassign/core/optimize"
)

// OptimizerConfig defines how assignments are solved.
type OptimizerConfig struct {
	// Sense is "maximize" (default) or "minimize".
	Sense string `json:"sense"`
	// Solver selects the solver implementation, "simplex" or "enumerate".
	Solver factory.ModuleConfig `json:"solver"`
	// Tolerance bounds how far a variable may sit from 0 or 1.
	Tolerance float64 `json:"tolerance"`
	// TimeoutSeconds bounds the solve. Zero disables the limit.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *OptimizerConfig) SetDefaults() {
	if c.Sense == "" {
		c.Sense = optimize.DefaultSense.String()
	}
	if c.Solver.Type == "" {
		c.Solver.Type = optimize.DefaultSolverType
	}
	if c.Tolerance == 0 {
		c.Tolerance = optimize.DefaultTolerance
	}
}

// Validate checks the solver settings.
func (c OptimizerConfig) Validate() error {
	if _, err := optimize.ParseSense(c.Sense); err != nil {
		return err
	}
	if !optimize.HasSolver(c.Solver.Type) {
		return fmt.Errorf("unknown solver %q (known: %v)", c.Solver.Type, optimize.SolverTypes())
	}
	if c.Tolerance <= 0 || c.Tolerance >= 0.5 {
		return fmt.Errorf("tolerance must be in (0, 0.5), got %g", c.Tolerance)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// ObjectiveSense returns the parsed Sense.
func (c OptimizerConfig) ObjectiveSense() (optimize.Sense, error) {
	return optimize.ParseSense(c.Sense)
}

// Timeout returns the solve deadline, zero when unlimited.
func (c OptimizerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
