// Package report derives read-only summaries from an assignment.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/kilianp07/carrierassign/core/model"
)

// CarrierCount is the number of shipments assigned to one carrier.
type CarrierCount struct {
	Carrier   string  `json:"carrier"`
	Shipments int     `json:"shipments"`
	Score     float64 `json:"score"`
}

// Summary aggregates an assignment.
type Summary struct {
	Shipments        int            `json:"shipments"`
	DistinctCarriers int            `json:"distinct_carriers"`
	ModalCarrier     string         `json:"modal_carrier"`
	Breakdown        []CarrierCount `json:"breakdown"`
	Objective        float64        `json:"objective"`
	Sense            string         `json:"sense"`
}

// Summarize counts shipments per carrier. The breakdown is ordered by count,
// largest first, then by carrier; the modal carrier is the first entry of
// that order, so ties go to the lexicographically smallest carrier.
func Summarize(asn model.Assignment, scores model.Scores) Summary {
	counts := make(map[string]int)
	for _, c := range asn {
		counts[c]++
	}
	breakdown := make([]CarrierCount, 0, len(counts))
	for c, n := range counts {
		s, _ := scores.Score(c)
		breakdown = append(breakdown, CarrierCount{Carrier: c, Shipments: n, Score: s})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Shipments != breakdown[j].Shipments {
			return breakdown[i].Shipments > breakdown[j].Shipments
		}
		return breakdown[i].Carrier < breakdown[j].Carrier
	})
	sum := Summary{
		Shipments:        len(asn),
		DistinctCarriers: len(breakdown),
		Breakdown:        breakdown,
	}
	if len(breakdown) > 0 {
		sum.ModalCarrier = breakdown[0].Carrier
	}
	return sum
}

// WriteText renders the summary for operators.
func WriteText(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("\n--- Optimization Summary ---\n")
	ew.printf("Total number of shipments: %d\n", s.Shipments)
	ew.printf("Number of unique carriers used: %d\n", s.DistinctCarriers)
	ew.printf("Most frequently assigned carrier: %s\n", s.ModalCarrier)
	if s.Sense != "" {
		ew.printf("Objective (%s): %.6f\n", s.Sense, s.Objective)
	}
	ew.printf("\nCarrier Assignment Breakdown:\n")
	for _, c := range s.Breakdown {
		ew.printf("%-20s %8d  (score %.4f)\n", c.Carrier, c.Shipments, c.Score)
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
