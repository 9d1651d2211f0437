// Package dataset loads shipment history from CSV or JSON files.
package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/carrierassign/core/model"
)

var (
	// ErrMissingField is returned when a required column is absent.
	ErrMissingField = fmt.Errorf("%w: missing required field", model.ErrInput)
	// ErrInvalidDate is returned when the order date matches no layout.
	ErrInvalidDate = fmt.Errorf("%w: invalid date", model.ErrInput)
	// ErrInvalidValue is returned for empty carriers and bad numbers.
	ErrInvalidValue = fmt.Errorf("%w: invalid value", model.ErrInput)
	// ErrEmptyDataset is returned when the input has no records.
	ErrEmptyDataset = fmt.Errorf("%w: empty dataset", model.ErrInput)
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", model.ErrInput)
)

// DefaultDateLayouts are tried in order when parsing the order date.
var DefaultDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006",
	"1/2/06",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
}

// Options tune parsing.
type Options struct {
	// DateLayouts overrides DefaultDateLayouts when non empty.
	DateLayouts []string
}

func (o Options) layouts() []string {
	if len(o.DateLayouts) > 0 {
		return o.DateLayouts
	}
	return DefaultDateLayouts
}

// Load reads the dataset at path. The format is chosen from the extension.
func Load(path string, opts Options) ([]model.Shipment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".json" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInput, err)
	}
	defer func() { _ = f.Close() }()
	if ext == ".json" {
		return ReadJSON(f, opts)
	}
	return ReadCSV(f, opts)
}

// record gives access to the raw cells of one input row.
type record func(field string) (string, bool)

func parseShipment(index int, get record, opts Options) (model.Shipment, error) {
	for _, f := range model.RequiredFields {
		if _, ok := get(f); !ok {
			return model.Shipment{}, fmt.Errorf("%w: %q (row %d)", ErrMissingField, f, index)
		}
	}
	s := model.Shipment{Index: index}
	if id, ok := get(model.FieldOrderID); ok {
		s.Label = strings.TrimSpace(id)
	}

	raw, _ := get(model.FieldOrderDate)
	date, err := parseDate(strings.TrimSpace(raw), opts.layouts())
	if err != nil {
		return model.Shipment{}, fmt.Errorf("%w: row %d: %q", ErrInvalidDate, index, raw)
	}
	s.OrderDate = date

	carrier, _ := get(model.FieldCarrier)
	s.Carrier = strings.TrimSpace(carrier)
	if s.Carrier == "" {
		return model.Shipment{}, fmt.Errorf("%w: row %d: empty %q", ErrInvalidValue, index, model.FieldCarrier)
	}

	nums := []struct {
		field string
		dst   *float64
	}{
		{model.FieldLateDays, &s.LateDays},
		{model.FieldAheadDays, &s.AheadDays},
		{model.FieldQuantity, &s.Quantity},
		{model.FieldWeight, &s.Weight},
	}
	for _, n := range nums {
		v, _ := get(n.field)
		f, err := parseAmount(v)
		if err != nil {
			return model.Shipment{}, fmt.Errorf("%w: row %d: %q: %v", ErrInvalidValue, index, n.field, err)
		}
		*n.dst = f
	}
	return s, nil
}

func parseDate(v string, layouts []string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	var lastErr error
	for _, l := range layouts {
		t, err := time.Parse(l, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseAmount parses a non-negative finite number. Empty cells are missing
// values and yield NaN.
func parseAmount(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %s", v)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative value: %s", v)
	}
	return f, nil
}
