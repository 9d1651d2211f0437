package metrics

import (
	"sort"
	"time"
)

// RunEvent describes one optimisation run.
type RunEvent struct {
	RunID         string
	Time          time.Time
	Status        string
	Sense         string
	Shipments     int
	Carriers      int
	CarriersUsed  int
	Objective     float64
	SolveDuration time.Duration
	// Assigned maps carrier → number of shipments assigned to it.
	Assigned map[string]int
	// Scores maps carrier → score used by the run.
	Scores map[string]float64
	Err    string
}

// Succeeded reports whether the run produced an assignment.
func (e RunEvent) Succeeded() bool { return e.Err == "" }

// SortedCarriers returns the carriers of e.Scores in sorted order.
func (e RunEvent) SortedCarriers() []string {
	ids := make([]string, 0, len(e.Scores))
	for c := range e.Scores {
		ids = append(ids, c)
	}
	sort.Strings(ids)
	return ids
}

// MetricsSink records optimisation runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error { return nil }
