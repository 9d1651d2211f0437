package optimize

import (
	"fmt"

	"github.com/kilianp07/carrierassign/core/model"
)

// ModelName is the name given to assignment models.
const ModelName = "carrier_assignment"

// Formulate builds the assignment program: one binary variable per
// (shipment, carrier) pair, objective sum(x[i,c] * score[c]) and one
// exactly-one-carrier constraint per shipment. Carriers are taken from
// scores in sorted order.
func Formulate(shipments []model.Shipment, scores model.Scores, sense Sense) (*Model, error) {
	if len(shipments) == 0 {
		return nil, fmt.Errorf("%w: no shipments", ErrEmptyProblem)
	}
	carriers := scores.Carriers()
	if len(carriers) == 0 {
		return nil, fmt.Errorf("%w: no carriers", ErrEmptyProblem)
	}

	m := NewModel(ModelName, sense)
	ones := make([]float64, len(carriers))
	for j := range ones {
		ones[j] = 1
	}
	for _, s := range shipments {
		vars := make([]int, len(carriers))
		for j, c := range carriers {
			v, err := m.AddBinary(VarKey{Shipment: s.Index, Carrier: c})
			if err != nil {
				return nil, err
			}
			score, _ := scores.Score(c)
			m.SetObjective(v, score)
			vars[j] = v
		}
		if err := m.AddEquality(vars, ones, 1); err != nil {
			return nil, err
		}
		m.shipments = append(m.shipments, s.Index)
	}
	return m, nil
}
