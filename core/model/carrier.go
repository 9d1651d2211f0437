package model

import "sort"

// CarrierScore holds the historical performance of one carrier.
type CarrierScore struct {
	Carrier      string  `json:"carrier"`
	Shipments    int     `json:"shipments"`
	MeanLateness float64 `json:"mean_lateness"`
	Score        float64 `json:"score"`
}

// Scores is the read-only carrier universe of a run together with each
// carrier's score. Entries are sorted by carrier identifier.
type Scores struct {
	entries []CarrierScore
	index   map[string]int
}

// NewScores builds a Scores set. Duplicate carriers keep the last entry.
func NewScores(entries []CarrierScore) Scores {
	byName := make(map[string]CarrierScore, len(entries))
	for _, e := range entries {
		byName[e.Carrier] = e
	}
	out := make([]CarrierScore, 0, len(byName))
	for _, e := range byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Carrier < out[j].Carrier })
	idx := make(map[string]int, len(out))
	for i, e := range out {
		idx[e.Carrier] = i
	}
	return Scores{entries: out, index: idx}
}

// Len returns the number of carriers.
func (s Scores) Len() int { return len(s.entries) }

// Carriers returns the carrier identifiers in sorted order.
func (s Scores) Carriers() []string {
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.Carrier
	}
	return ids
}

// Score returns the score of carrier and whether it is known.
func (s Scores) Score(carrier string) (float64, bool) {
	i, ok := s.index[carrier]
	if !ok {
		return 0, false
	}
	return s.entries[i].Score, true
}

// Entries returns a copy of the carrier scores.
func (s Scores) Entries() []CarrierScore {
	cp := make([]CarrierScore, len(s.entries))
	copy(cp, s.entries)
	return cp
}

// Map returns carrier → score.
func (s Scores) Map() map[string]float64 {
	m := make(map[string]float64, len(s.entries))
	for _, e := range s.entries {
		m[e.Carrier] = e.Score
	}
	return m
}

// Assignment maps a shipment index to its chosen carrier.
type Assignment map[int]string
