// Package export writes assignment results as JSON documents or CSV tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/kilianp07/carrierassign/core/model"
	"github.com/kilianp07/carrierassign/core/report"
)

// Row is the assignment of one shipment.
type Row struct {
	Shipment  int       `json:"shipment"`
	Label     string    `json:"label,omitempty"`
	OrderDate time.Time `json:"order_date"`
	Carrier   string    `json:"carrier"`
	Score     float64   `json:"score"`
}

// Document is the full result of a run.
type Document struct {
	RunID       string               `json:"run_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Summary     report.Summary       `json:"summary"`
	Scores      []model.CarrierScore `json:"scores"`
	Assignments []Row                `json:"assignments"`
}

// Rows joins shipments with their assigned carrier, ordered by shipment
// index. Shipments without an assignment are skipped. Unlabelled shipments
// are labelled with their row index.
func Rows(shipments []model.Shipment, asn model.Assignment, scores model.Scores) []Row {
	rows := make([]Row, 0, len(asn))
	for _, s := range shipments {
		c, ok := asn[s.Index]
		if !ok {
			continue
		}
		score, _ := scores.Score(c)
		rows = append(rows, Row{
			Shipment:  s.Index,
			Label:     s.ID(),
			OrderDate: s.OrderDate,
			Carrier:   c,
			Score:     score,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Shipment < rows[j].Shipment })
	return rows
}

// Marshal encodes doc as compact JSON.
func Marshal(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

// WriteJSON writes doc to w in indented JSON format.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteCSV writes one line per assigned shipment.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"shipment", "label", "order_date", "carrier", "score"}); err != nil {
		return err
	}
	for _, r := range rows {
		date := ""
		if !r.OrderDate.IsZero() {
			date = r.OrderDate.Format(time.DateOnly)
		}
		rec := []string{
			strconv.Itoa(r.Shipment),
			r.Label,
			date,
			r.Carrier,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
