package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/carrierassign/core/metrics"
)

// PromSink exposes the outcome of optimisation runs as Prometheus metrics.
// Batch runs usually end before a scrape happens, so the sink can push its
// registry to a Pushgateway after each recorded run.
type PromSink struct {
	runs      *prometheus.CounterVec
	shipments prometheus.Gauge
	carriers  prometheus.Gauge
	used      prometheus.Gauge
	objective prometheus.Gauge
	solve     prometheus.Histogram
	assigned  *prometheus.GaugeVec
	score     *prometheus.GaugeVec
	pusher    *push.Pusher
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carrierassign_runs_total",
			Help: "Total number of optimisation runs",
		}, []string{"status", "sense"}),
		shipments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carrierassign_shipments",
			Help: "Shipments in the last run",
		}),
		carriers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carrierassign_carriers",
			Help: "Carriers scored in the last run",
		}),
		used: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carrierassign_carriers_used",
			Help: "Distinct carriers receiving shipments in the last run",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "carrierassign_objective",
			Help: "Objective value of the last successful run",
		}),
		solve: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carrierassign_solve_duration_seconds",
			Help:    "Time spent in the solver",
			Buckets: prometheus.DefBuckets,
		}),
		assigned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carrierassign_assigned_shipments",
			Help: "Shipments assigned per carrier in the last successful run",
		}, []string{"carrier"}),
		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carrierassign_carrier_score",
			Help: "Carrier performance score used in the last run",
		}, []string{"carrier"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.shipments, err = register(reg, s.shipments); err != nil {
		return nil, err
	}
	if s.carriers, err = register(reg, s.carriers); err != nil {
		return nil, err
	}
	if s.used, err = register(reg, s.used); err != nil {
		return nil, err
	}
	if s.objective, err = register(reg, s.objective); err != nil {
		return nil, err
	}
	if s.solve, err = register(reg, s.solve); err != nil {
		return nil, err
	}
	if s.assigned, err = register(reg, s.assigned); err != nil {
		return nil, err
	}
	if s.score, err = register(reg, s.score); err != nil {
		return nil, err
	}
	return s, nil
}

// NewPushingPromSink registers metrics on a private registry and pushes it
// to the Pushgateway at url under job after every run.
func NewPushingPromSink(url, job string) (*PromSink, error) {
	reg := prometheus.NewRegistry()
	s, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		return nil, err
	}
	s.pusher = push.New(url, job).Gatherer(reg)
	return s, nil
}

// register adds c to reg, reusing an already registered collector of the
// same description.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates the run metrics and pushes them when a Pushgateway is
// configured.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Status, ev.Sense).Inc()
	s.shipments.Set(float64(ev.Shipments))
	s.carriers.Set(float64(ev.Carriers))
	s.score.Reset()
	for c, v := range ev.Scores {
		s.score.WithLabelValues(c).Set(v)
	}
	if ev.Succeeded() {
		s.used.Set(float64(ev.CarriersUsed))
		s.objective.Set(ev.Objective)
		s.solve.Observe(ev.SolveDuration.Seconds())
		s.assigned.Reset()
		for c, n := range ev.Assigned {
			s.assigned.WithLabelValues(c).Set(float64(n))
		}
	}
	if s.pusher != nil {
		return s.pusher.Push()
	}
	return nil
}
