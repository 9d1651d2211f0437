package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/carrierassign/core/model"
)

// ReadCSV parses a CSV dataset with a header row.
func ReadCSV(r io.Reader, opts Options) ([]model.Shipment, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", model.ErrInput, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, f := range model.RequiredFields {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, missing)
	}

	var out []model.Shipment
	for idx := 0; ; idx++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", model.ErrInput, idx, err)
		}
		get := func(field string) (string, bool) {
			i, ok := cols[field]
			if !ok {
				return "", false
			}
			if i >= len(row) {
				return "", true
			}
			return row[i], true
		}
		s, err := parseShipment(idx, get, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrEmptyDataset
	}
	return out, nil
}
