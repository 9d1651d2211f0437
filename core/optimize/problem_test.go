package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSense(t *testing.T) {
	for in, want := range map[string]Sense{"": DefaultSense, "min": Minimize, "Minimize": Minimize, "maximise": Maximize, " max ": Maximize} {
		got, err := ParseSense(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSense("sideways")
	assert.Error(t, err)
}

func TestProblem_Blocks(t *testing.T) {
	p := &Problem{
		NumVars:   5,
		Objective: make([]float64, 5),
		Constraints: []Constraint{
			{Vars: []int{3, 1}, Coeffs: []float64{1, 1}, RHS: 1},
			{Vars: []int{0, 2}, Coeffs: []float64{1, 1}, RHS: 1},
			{Vars: []int{2, 1}, Coeffs: []float64{1, 1}, RHS: 1},
		},
	}
	blocks := p.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, []int{0, 1, 2, 3}, blocks[0].Vars)
	assert.Equal(t, []int{0, 1, 2}, blocks[0].Constraints)
	assert.Equal(t, []int{4}, blocks[1].Vars)
	assert.Empty(t, blocks[1].Constraints)
}

func TestFormulate_OneBlockPerShipment(t *testing.T) {
	m, err := Formulate(shipments(4), scoresOf(map[string]float64{"A": 1, "B": 0.5}), Minimize)
	require.NoError(t, err)
	assert.Equal(t, 8, m.NumVars)
	assert.Len(t, m.Constraints, 4)
	assert.Len(t, m.Blocks(), 4)
	assert.Equal(t, []int{0, 1, 2, 3}, m.Shipments())

	v, ok := m.Var(VarKey{Shipment: 2, Carrier: "B"})
	require.True(t, ok)
	assert.Equal(t, VarKey{Shipment: 2, Carrier: "B"}, m.Key(v))
	assert.Equal(t, 0.5, m.Objective[v])
	_, ok = m.Var(VarKey{Shipment: 9, Carrier: "B"})
	assert.False(t, ok)
}

func TestFormulate_DuplicateShipment(t *testing.T) {
	ship := shipments(2)
	ship[1].Index = 0
	_, err := Formulate(ship, scoresOf(map[string]float64{"A": 1}), Minimize)
	assert.ErrorIs(t, err, ErrDuplicateVar)
}

func TestModel_AddEqualityValidation(t *testing.T) {
	m := NewModel("t", Minimize)
	v, err := m.AddBinary(VarKey{Shipment: 0, Carrier: "A"})
	require.NoError(t, err)
	assert.ErrorIs(t, m.AddEquality(nil, nil, 1), ErrInvalidConstraint)
	assert.ErrorIs(t, m.AddEquality([]int{v}, []float64{1, 2}, 1), ErrInvalidConstraint)
	assert.ErrorIs(t, m.AddEquality([]int{v + 1}, []float64{1}, 1), ErrInvalidConstraint)
	assert.NoError(t, m.AddEquality([]int{v}, []float64{1}, 1))
}
