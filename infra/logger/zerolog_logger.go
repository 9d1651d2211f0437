package logger

import (
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger writes to stderr; stdout is reserved for reports.
// APP_ENV=dev or a "console" format switches to the human readable writer.
func NewZerologLogger(component string) Logger {
	return NewZerologLoggerWithWriter(component, stderrWriter())
}

func stderrWriter() io.Writer {
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") || consoleOutput() {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return os.Stderr
}

// NewZerologLoggerWithWriter creates a logger tagged with component that
// writes JSON lines to w.
func NewZerologLoggerWithWriter(component string, w io.Writer) *ZerologLogger {
	return &ZerologLogger{
		log: zerolog.New(w).With().Timestamp().Str("component", component).Logger(),
	}
}

// WithRun returns a child logger carrying the run identifier.
func (l *ZerologLogger) WithRun(runID string) Logger {
	return &ZerologLogger{log: l.log.With().Str("run_id", runID).Logger()}
}

func (l *ZerologLogger) Debugf(format string, args ...any) { l.log.Debug().Msgf(format, args...) }

// Debugw emits fields in key order so lines diff cleanly between runs.
func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	if ev == nil {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev = ev.Interface(k, fields[k])
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) { l.log.Info().Msgf(format, args...) }
func (l *ZerologLogger) Warnf(format string, args ...any) { l.log.Warn().Msgf(format, args...) }

func (l *ZerologLogger) Errorf(format string, args ...any) { l.log.Error().Msgf(format, args...) }
