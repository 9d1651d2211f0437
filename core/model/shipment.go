package model

import (
	"math"
	"strconv"
	"time"
)

// Field names of the shipment history dataset. They are fixed contract strings
// shared by every input format.
const (
	FieldOrderID   = "Order ID"
	FieldOrderDate = "Order Date"
	FieldCarrier   = "Carrier"
	FieldLateDays  = "Ship Late Day count"
	FieldAheadDays = "Ship ahead day count"
	FieldQuantity  = "Unit quantity"
	FieldWeight    = "Weight"
)

// RequiredFields lists the columns every dataset must provide.
var RequiredFields = []string{
	FieldOrderDate,
	FieldCarrier,
	FieldLateDays,
	FieldAheadDays,
	FieldQuantity,
	FieldWeight,
}

// Shipment is one historical freight record. Index is the 0-based row position
// in the dataset and identifies the shipment in assignment results.
type Shipment struct {
	Index     int
	Label     string // Order ID when the dataset carries one
	OrderDate time.Time
	Carrier   string
	LateDays  float64 // NaN when the cell was empty
	AheadDays float64
	Quantity  float64
	Weight    float64
}

// HasLateness reports whether the lateness value was present in the input.
func (s Shipment) HasLateness() bool { return !math.IsNaN(s.LateDays) }

// ID returns the label if set, otherwise the row index as text.
func (s Shipment) ID() string {
	if s.Label != "" {
		return s.Label
	}
	return strconv.Itoa(s.Index)
}
