package logger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/carrierassign/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

var (
	mu      sync.RWMutex
	console bool
)

// Configure sets the minimum level ("debug", "info", "warn", "error") and
// output format ("json" or "console") for loggers created afterwards.
func Configure(level, format string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("log level %q: %w", level, err)
		}
	}
	switch strings.ToLower(format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	zerolog.SetGlobalLevel(lvl)
	mu.Lock()
	console = strings.EqualFold(format, "console")
	mu.Unlock()
	return nil
}

func consoleOutput() bool {
	mu.RLock()
	defer mu.RUnlock()
	return console
}

// New returns a Logger for the given component. The environment is detected via
// the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
