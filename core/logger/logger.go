package logger

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Nop discards every message. Core packages fall back to it when no logger
// is injected.
type Nop struct{}

func (Nop) Debugf(string, ...any)         {}
func (Nop) Debugw(string, map[string]any) {}
func (Nop) Infof(string, ...any)          {}
func (Nop) Warnf(string, ...any)          {}
func (Nop) Errorf(string, ...any)         {}

// RunScoped is implemented by loggers that can tag every entry with the
// identifier of an optimisation run.
type RunScoped interface {
	WithRun(runID string) Logger
}

// ForRun returns l tagged with runID, or l itself when it cannot be tagged.
func ForRun(l Logger, runID string) Logger {
	if rs, ok := l.(RunScoped); ok {
		return rs.WithRun(runID)
	}
	return l
}
