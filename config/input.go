package config

import "github.com/kilianp07/carrierassign/infra/dataset"

// InputConfig locates the shipment history.
type InputConfig struct {
	// Path is a .csv or .json dataset.
	Path string `json:"path"`
	// DateLayouts override the accepted order date formats.
	DateLayouts []string `json:"date_layouts"`
}

// Options converts the section to dataset options.
func (c InputConfig) Options() dataset.Options {
	return dataset.Options{DateLayouts: c.DateLayouts}
}
