package optimize

import (
	"fmt"
	"strings"
)

// Sense is the optimisation direction of the objective.
type Sense int

const (
	// Minimize the objective.
	Minimize Sense = iota
	// Maximize the objective.
	Maximize
)

// DefaultSense is the direction used when none is configured. Scores are
// higher for more punctual carriers, so the objective is maximised: the
// solver prefers the carriers with the lowest historical lateness. Minimize
// reproduces the literal "minimise total score" formulation, which favours
// the least punctual carrier.
const DefaultSense = Maximize

func (s Sense) String() string {
	switch s {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// ParseSense converts a config string into a Sense. The empty string yields
// DefaultSense.
func ParseSense(v string) (Sense, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return DefaultSense, nil
	case "min", "minimize", "minimise":
		return Minimize, nil
	case "max", "maximize", "maximise":
		return Maximize, nil
	default:
		return 0, fmt.Errorf("unknown objective sense %q", v)
	}
}

// Constraint is a linear equality sum(Coeffs[k] * x[Vars[k]]) == RHS.
type Constraint struct {
	Vars   []int
	Coeffs []float64
	RHS    float64
}

// Problem is a binary linear program: every variable is restricted to
// {0, 1}, the objective is linear and all constraints are equalities.
type Problem struct {
	Name        string
	Sense       Sense
	NumVars     int
	Objective   []float64
	Constraints []Constraint
}

// Evaluate returns the objective value of x.
func (p *Problem) Evaluate(x []float64) float64 {
	var f float64
	for i, c := range p.Objective {
		if i < len(x) {
			f += c * x[i]
		}
	}
	return f
}

// Validate checks the problem dimensions and constraint references.
func (p *Problem) Validate() error {
	if p.NumVars == 0 {
		return ErrEmptyProblem
	}
	if len(p.Objective) != p.NumVars {
		return fmt.Errorf("%w: objective has %d coefficients for %d variables", ErrInvalidConstraint, len(p.Objective), p.NumVars)
	}
	for i, c := range p.Constraints {
		if len(c.Vars) == 0 || len(c.Vars) != len(c.Coeffs) {
			return fmt.Errorf("%w: constraint %d", ErrInvalidConstraint, i)
		}
		for _, v := range c.Vars {
			if v < 0 || v >= p.NumVars {
				return fmt.Errorf("%w: constraint %d references variable %d", ErrInvalidConstraint, i, v)
			}
		}
	}
	return nil
}

// Block is a set of constraints sharing variables, together with those
// variables. Blocks are independent of each other and can be solved apart.
type Block struct {
	Vars        []int
	Constraints []int
}

// Blocks partitions the problem into independent sub-problems. Variables
// that appear in no constraint form single-variable blocks. Blocks are
// ordered by their lowest variable index.
func (p *Problem) Blocks() []Block {
	parent := make([]int, p.NumVars)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}
	for _, c := range p.Constraints {
		if len(c.Vars) == 0 {
			continue
		}
		for _, v := range c.Vars[1:] {
			union(c.Vars[0], v)
		}
	}

	pos := make(map[int]int)
	var blocks []Block
	for v := 0; v < p.NumVars; v++ {
		r := find(v)
		i, ok := pos[r]
		if !ok {
			i = len(blocks)
			pos[r] = i
			blocks = append(blocks, Block{})
		}
		blocks[i].Vars = append(blocks[i].Vars, v)
	}
	for ci, c := range p.Constraints {
		if len(c.Vars) == 0 {
			continue
		}
		i := pos[find(c.Vars[0])]
		blocks[i].Constraints = append(blocks[i].Constraints, ci)
	}
	return blocks
}

// VarKey identifies the decision variable "shipment is sent with carrier".
type VarKey struct {
	Shipment int
	Carrier  string
}

// Model is a Problem built for one solve together with the mapping between
// variable indices and (shipment, carrier) keys. A Model is owned by a
// single run and never reused.
type Model struct {
	Problem
	keys      []VarKey
	vars      map[VarKey]int
	shipments []int
}

// NewModel returns an empty model.
func NewModel(name string, sense Sense) *Model {
	return &Model{
		Problem: Problem{Name: name, Sense: sense},
		vars:    make(map[VarKey]int),
	}
}

// AddBinary declares a binary variable for key and returns its index.
func (m *Model) AddBinary(key VarKey) (int, error) {
	if _, ok := m.vars[key]; ok {
		return 0, fmt.Errorf("%w: shipment %d carrier %q", ErrDuplicateVar, key.Shipment, key.Carrier)
	}
	idx := m.NumVars
	m.NumVars++
	m.vars[key] = idx
	m.keys = append(m.keys, key)
	m.Objective = append(m.Objective, 0)
	return idx, nil
}

// SetObjective sets the objective coefficient of variable v.
func (m *Model) SetObjective(v int, coef float64) {
	m.Objective[v] = coef
}

// AddEquality adds sum(coeffs[k] * x[vars[k]]) == rhs.
func (m *Model) AddEquality(vars []int, coeffs []float64, rhs float64) error {
	if len(vars) == 0 {
		return fmt.Errorf("%w: empty constraint", ErrInvalidConstraint)
	}
	if len(vars) != len(coeffs) {
		return fmt.Errorf("%w: %d vars but %d coefficients", ErrInvalidConstraint, len(vars), len(coeffs))
	}
	for _, v := range vars {
		if v < 0 || v >= m.NumVars {
			return fmt.Errorf("%w: unknown variable %d", ErrInvalidConstraint, v)
		}
	}
	m.Constraints = append(m.Constraints, Constraint{
		Vars:   append([]int(nil), vars...),
		Coeffs: append([]float64(nil), coeffs...),
		RHS:    rhs,
	})
	return nil
}

// Var returns the variable index of key.
func (m *Model) Var(key VarKey) (int, bool) {
	v, ok := m.vars[key]
	return v, ok
}

// Key returns the key of variable v.
func (m *Model) Key(v int) VarKey { return m.keys[v] }

// Shipments returns the shipment indices covered by the model in
// formulation order.
func (m *Model) Shipments() []int { return append([]int(nil), m.shipments...) }
