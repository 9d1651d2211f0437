// Package scoring reduces shipment history into one performance score per
// carrier.
package scoring

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/carrierassign/core/model"
)

var (
	// ErrNoShipments is returned when there is nothing to score.
	ErrNoShipments = fmt.Errorf("%w: no shipments", model.ErrScoring)
	// ErrNoLateness is returned when a carrier has no valid lateness value.
	ErrNoLateness = fmt.Errorf("%w: carrier has no lateness values", model.ErrScoring)
	// ErrInvalidLateness is returned for negative or infinite lateness counts.
	ErrInvalidLateness = fmt.Errorf("%w: invalid lateness", model.ErrScoring)
	// ErrEmptyCarrier is returned for records without a carrier identifier.
	ErrEmptyCarrier = fmt.Errorf("%w: empty carrier identifier", model.ErrInput)
)

// Score maps a mean lateness to a performance score in (0,1]. It is strictly
// decreasing and Score(0) == 1.
func Score(meanLateness float64) float64 {
	return 1 / (1 + meanLateness)
}

// ScoreCarriers groups shipments by carrier and scores each group by its
// mean lateness. Missing lateness values are skipped.
func ScoreCarriers(shipments []model.Shipment) (model.Scores, error) {
	if len(shipments) == 0 {
		return model.Scores{}, ErrNoShipments
	}
	late := make(map[string][]float64)
	counts := make(map[string]int)
	for _, s := range shipments {
		if s.Carrier == "" {
			return model.Scores{}, fmt.Errorf("%w: row %d", ErrEmptyCarrier, s.Index)
		}
		counts[s.Carrier]++
		if !s.HasLateness() {
			continue
		}
		if s.LateDays < 0 || math.IsInf(s.LateDays, 0) {
			return model.Scores{}, fmt.Errorf("%w: row %d carrier %q: %v", ErrInvalidLateness, s.Index, s.Carrier, s.LateDays)
		}
		late[s.Carrier] = append(late[s.Carrier], s.LateDays)
	}

	entries := make([]model.CarrierScore, 0, len(counts))
	for carrier, n := range counts {
		vals := late[carrier]
		if len(vals) == 0 {
			return model.Scores{}, fmt.Errorf("%w: %q", ErrNoLateness, carrier)
		}
		mean := stat.Mean(vals, nil)
		entries = append(entries, model.CarrierScore{
			Carrier:      carrier,
			Shipments:    n,
			MeanLateness: mean,
			Score:        Score(mean),
		})
	}
	return model.NewScores(entries), nil
}
