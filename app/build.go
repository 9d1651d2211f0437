package app

import (
	"fmt"

	"github.com/kilianp07/carrierassign/config"
	coremetrics "github.com/kilianp07/carrierassign/core/metrics"
	"github.com/kilianp07/carrierassign/core/optimize"
	"github.com/kilianp07/carrierassign/infra/logger"
	_ "github.com/kilianp07/carrierassign/infra/metrics" // registers metrics sinks
	"github.com/kilianp07/carrierassign/infra/monitoring"
	"github.com/kilianp07/carrierassign/infra/mqtt"
)

// New builds a Pipeline from the configuration.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	log := logger.New("pipeline")

	sense, err := cfg.Optimizer.ObjectiveSense()
	if err != nil {
		return nil, err
	}
	solver, err := optimize.NewSolver(cfg.Optimizer.Solver)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	opt := optimize.New(solver,
		optimize.WithSense(sense),
		optimize.WithTolerance(cfg.Optimizer.Tolerance),
		optimize.WithLogger(logger.New("optimizer")),
	)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	pub, err := mqtt.NewPublisher(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt publisher: %w", err)
	}
	log.Debugw("pipeline configured", map[string]any{
		"solver":  cfg.Optimizer.Solver.Type,
		"sense":   sense.String(),
		"sinks":   len(cfg.Metrics.Sinks),
		"publish": cfg.MQTT.Enabled(),
	})

	return NewPipeline(opt,
		WithDatasetOptions(cfg.Input.Options()),
		WithMetrics(sink),
		WithMonitor(mon),
		WithPublisher(pub),
		WithLogger(log),
		WithTimeout(cfg.Optimizer.Timeout()),
	), nil
}
