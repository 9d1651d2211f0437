package optimize

import "github.com/kilianp07/carrierassign/core/factory"

// DefaultSolverType is used when the solver config has no type.
const DefaultSolverType = "simplex"

var solverRegistry = factory.NewRegistry[Solver]()

// RegisterSolver adds a solver factory identified by name.
func RegisterSolver(name string, f factory.Factory[Solver]) error {
	return solverRegistry.Register(name, f)
}

// NewSolver creates the solver described by cfg.
func NewSolver(cfg factory.ModuleConfig) (Solver, error) {
	if cfg.Type == "" {
		cfg.Type = DefaultSolverType
	}
	return solverRegistry.Create(cfg)
}

// HasSolver reports whether name is a registered solver.
func HasSolver(name string) bool { return solverRegistry.Has(name) }

// SolverTypes lists the registered solver names.
func SolverTypes() []string { return solverRegistry.Names() }

func init() {
	solverRegistry.MustRegister("simplex", func(conf map[string]any) (Solver, error) {
		var c struct {
			Tolerance  float64 `json:"tolerance"`
			Monolithic bool    `json:"monolithic"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s := NewSimplexSolver()
		if c.Tolerance > 0 {
			s.Tol = c.Tolerance
		}
		s.Monolithic = c.Monolithic
		return s, nil
	})
	solverRegistry.MustRegister("enumerate", func(map[string]any) (Solver, error) {
		return EnumerationSolver{}, nil
	})
}
