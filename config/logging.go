package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// LoggingConfig controls log verbosity and encoding.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn or error
	Format string `json:"format"` // json or console
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = zerolog.InfoLevel.String()
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

func (c LoggingConfig) Validate() error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || lvl < zerolog.DebugLevel || lvl > zerolog.ErrorLevel {
		return fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Level)
	}
	switch c.Format {
	case "json", "console":
		return nil
	}
	return fmt.Errorf("logging.format %q: want json or console", c.Format)
}
