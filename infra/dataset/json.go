package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/carrierassign/core/model"
)

// ReadJSON parses a JSON array of objects keyed by the dataset field names.
// Values may be strings or numbers.
func ReadJSON(r io.Reader, opts Options) ([]model.Shipment, error) {
	var rows []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("%w: decode json: %w", model.ErrInput, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	out := make([]model.Shipment, 0, len(rows))
	for idx, row := range rows {
		get := func(field string) (string, bool) {
			v, ok := row[field]
			if !ok {
				return "", false
			}
			return cell(v), true
		}
		s, err := parseShipment(idx, get, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
