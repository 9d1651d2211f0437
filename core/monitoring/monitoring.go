// Package monitoring defines the error reporting hook used by the pipeline.
package monitoring

import (
	"sync"
	"time"
)

// Tag keys attached to captured errors.
const (
	TagRunID = "run_id"
	TagKind  = "kind"
	TagStage = "stage"
)

// Monitor reports errors to an external service.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// Recover reports a panic and re-panics. It must be deferred.
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor drops every report.
type NopMonitor struct{}

// CaptureException discards the error.
func (NopMonitor) CaptureException(error, map[string]string) {}

// Recover is a no-op; panics propagate unchanged.
func (NopMonitor) Recover() {}

// Flush returns immediately.
func (NopMonitor) Flush(time.Duration) {}

// Report is one captured error.
type Report struct {
	Err  error
	Tags map[string]string
}

// Recorder keeps captured errors in memory.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
	flushes int
}

// CaptureException stores err with a copy of tags.
func (r *Recorder) CaptureException(err error, tags map[string]string) {
	cp := make(map[string]string, len(tags))
	for k, v := range tags {
		cp[k] = v
	}
	r.mu.Lock()
	r.reports = append(r.reports, Report{Err: err, Tags: cp})
	r.mu.Unlock()
}

// Recover is a no-op; panics propagate unchanged.
func (r *Recorder) Recover() {}

// Flush counts the call so tests can assert the monitor was flushed.
func (r *Recorder) Flush(time.Duration) {
	r.mu.Lock()
	r.flushes++
	r.mu.Unlock()
}

// Reports returns the captured errors in order.
func (r *Recorder) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Report(nil), r.reports...)
}

// Flushed reports whether Flush was called.
func (r *Recorder) Flushed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes > 0
}
