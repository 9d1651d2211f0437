package config

import "fmt"

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ReportConfig defines where and how results are written.
type ReportConfig struct {
	Format string `json:"format"`
	// Output is a file path. Empty writes to stdout.
	Output string `json:"output"`
}

// SetDefaults applies sane defaults.
func (c *ReportConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = FormatText
	}
}

// Validate checks the format.
func (c ReportConfig) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
}
