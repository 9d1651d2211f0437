package optimize

import (
	"fmt"

	"github.com/kilianp07/carrierassign/core/model"
)

// DefaultTolerance is the distance from 0 or 1 within which a solved
// variable value is accepted as that integer.
const DefaultTolerance = 1e-6

// Extract decodes a solution of m into a shipment → carrier assignment. A
// variable counts as chosen when its value is within tol of 1 and as unused
// within tol of 0; anything else is an error, as is a shipment with zero or
// several chosen carriers.
func Extract(m *Model, sol Solution, tol float64) (model.Assignment, error) {
	if !sol.IsOptimal() {
		return nil, fmt.Errorf("%w: status %s", ErrNotOptimal, sol.Status)
	}
	if len(sol.Values) != m.NumVars {
		return nil, fmt.Errorf("%w: %d values for %d variables", model.ErrExtraction, len(sol.Values), m.NumVars)
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}

	asn := make(model.Assignment, len(m.shipments))
	for v, val := range sol.Values {
		key := m.keys[v]
		switch {
		case val >= 1-tol && val <= 1+tol:
			if prev, ok := asn[key.Shipment]; ok {
				return nil, fmt.Errorf("%w: shipment %d chose both %q and %q", ErrInconsistentAssignment, key.Shipment, prev, key.Carrier)
			}
			asn[key.Shipment] = key.Carrier
		case val >= -tol && val <= tol:
		default:
			return nil, fmt.Errorf("%w: shipment %d carrier %q = %g", ErrFractional, key.Shipment, key.Carrier, val)
		}
	}
	for _, s := range m.shipments {
		if _, ok := asn[s]; !ok {
			return nil, fmt.Errorf("%w: shipment %d has no carrier", ErrInconsistentAssignment, s)
		}
	}
	return asn, nil
}
