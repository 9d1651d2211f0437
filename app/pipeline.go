// Package app wires the dataset loader, scorer, optimizer and reporting
// into a single batch run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/carrierassign/core/logger"
	coremetrics "github.com/kilianp07/carrierassign/core/metrics"
	"github.com/kilianp07/carrierassign/core/model"
	coremon "github.com/kilianp07/carrierassign/core/monitoring"
	coremqtt "github.com/kilianp07/carrierassign/core/mqtt"
	"github.com/kilianp07/carrierassign/core/optimize"
	"github.com/kilianp07/carrierassign/core/report"
	"github.com/kilianp07/carrierassign/core/scoring"
	"github.com/kilianp07/carrierassign/infra/dataset"
	"github.com/kilianp07/carrierassign/pkg/export"
)

// StatusFailed labels runs that did not produce an assignment.
const StatusFailed = "failed"

// Loader reads shipments from a dataset location.
type Loader func(path string) ([]model.Shipment, error)

// Pipeline runs load → score → optimize → summarize and reports the outcome
// to the metrics sink, the result publisher and the error monitor. It keeps
// no state between runs.
type Pipeline struct {
	optimizer *optimize.Optimizer
	load      Loader
	sink      coremetrics.MetricsSink
	publisher coremqtt.Publisher
	monitor   coremon.Monitor
	log       logger.Logger
	timeout   time.Duration
	now       func() time.Time
	newID     func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoader replaces the dataset loader.
func WithLoader(l Loader) Option { return func(p *Pipeline) { p.load = l } }

// WithDatasetOptions loads datasets from disk with the given parse options.
func WithDatasetOptions(opts dataset.Options) Option {
	return WithLoader(func(path string) ([]model.Shipment, error) { return dataset.Load(path, opts) })
}

// WithMetrics sets the run metrics sink.
func WithMetrics(s coremetrics.MetricsSink) Option { return func(p *Pipeline) { p.sink = s } }

// WithPublisher sets the result publisher.
func WithPublisher(pub coremqtt.Publisher) Option { return func(p *Pipeline) { p.publisher = pub } }

// WithMonitor sets the error monitor.
func WithMonitor(m coremon.Monitor) Option { return func(p *Pipeline) { p.monitor = m } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(p *Pipeline) { p.log = l } }

// WithTimeout bounds the solve step. Zero disables the limit.
func WithTimeout(d time.Duration) Option { return func(p *Pipeline) { p.timeout = d } }

// NewPipeline returns a Pipeline around optimizer. Collaborators default to
// no-op implementations.
func NewPipeline(optimizer *optimize.Optimizer, opts ...Option) *Pipeline {
	if optimizer == nil {
		optimizer = optimize.New(nil)
	}
	p := &Pipeline{
		optimizer: optimizer,
		sink:      coremetrics.NopSink{},
		publisher: coremqtt.NopPublisher{},
		monitor:   coremon.NopMonitor{},
		log:       logger.Nop{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	WithDatasetOptions(dataset.Options{})(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report is the outcome of a successful run.
type Report struct {
	RunID     string
	Generated time.Time
	Shipments []model.Shipment
	Scores    model.Scores
	Result    *optimize.Result
	Summary   report.Summary
}

// Document converts the report to its export form.
func (r *Report) Document() export.Document {
	return export.Document{
		RunID:       r.RunID,
		GeneratedAt: r.Generated,
		Summary:     r.Summary,
		Scores:      r.Scores.Entries(),
		Assignments: export.Rows(r.Shipments, r.Result.Assignment, r.Scores),
	}
}

// Run executes one optimisation over the dataset at path. Any stage failure
// aborts the run, is reported to the monitor and the metrics sink, and is
// returned. Metrics and publish failures are reported but do not fail a run
// that already produced an assignment.
func (p *Pipeline) Run(ctx context.Context, path string) (*Report, error) {
	defer p.monitor.Recover()
	runID := p.newID()
	started := p.now()
	log := logger.ForRun(p.log, runID)
	log.Infof("loading %s", path)

	shipments, scores, err := p.score(log, path)
	if err != nil {
		p.fail(log, runID, started, shipments, scores, err)
		return nil, err
	}

	solveCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	res, err := p.optimizer.Optimize(solveCtx, shipments, scores)
	if err != nil {
		err = fmt.Errorf("optimize: %w", err)
		p.fail(log, runID, started, shipments, scores, err)
		return nil, err
	}

	sum := report.Summarize(res.Assignment, scores)
	sum.Objective = res.Objective
	sum.Sense = res.Sense.String()
	rep := &Report{
		RunID:     runID,
		Generated: started,
		Shipments: shipments,
		Scores:    scores,
		Result:    res,
		Summary:   sum,
	}

	assigned := make(map[string]int, len(sum.Breakdown))
	for _, c := range sum.Breakdown {
		assigned[c.Carrier] = c.Shipments
	}
	p.record(log, coremetrics.RunEvent{
		RunID:         runID,
		Time:          started,
		Status:        res.Status.String(),
		Sense:         res.Sense.String(),
		Shipments:     len(shipments),
		Carriers:      scores.Len(),
		CarriersUsed:  sum.DistinctCarriers,
		Objective:     res.Objective,
		SolveDuration: res.Duration,
		Assigned:      assigned,
		Scores:        scores.Map(),
	})
	p.publish(ctx, log, rep)
	log.Infof("%d shipments assigned to %d carriers, modal %s", sum.Shipments, sum.DistinctCarriers, sum.ModalCarrier)
	return rep, nil
}

// Scores loads the dataset at path and scores its carriers without solving.
func (p *Pipeline) Scores(path string) (model.Scores, error) {
	_, scores, err := p.score(p.log, path)
	if err != nil {
		p.monitor.CaptureException(err, map[string]string{coremon.TagStage: "score", coremon.TagKind: ErrorKind(err)})
		return model.Scores{}, err
	}
	return scores, nil
}

func (p *Pipeline) score(log logger.Logger, path string) ([]model.Shipment, model.Scores, error) {
	shipments, err := p.load(path)
	if err != nil {
		return nil, model.Scores{}, fmt.Errorf("load %s: %w", path, err)
	}
	scores, err := scoring.ScoreCarriers(shipments)
	if err != nil {
		return shipments, model.Scores{}, fmt.Errorf("score: %w", err)
	}
	log.Debugw("carriers scored", map[string]any{
		"shipments": len(shipments),
		"carriers":  scores.Len(),
	})
	return shipments, scores, nil
}

func (p *Pipeline) fail(log logger.Logger, runID string, started time.Time, shipments []model.Shipment, scores model.Scores, err error) {
	kind := ErrorKind(err)
	log.Errorf("run failed (%s): %v", kind, err)
	p.monitor.CaptureException(err, map[string]string{coremon.TagRunID: runID, coremon.TagKind: kind})
	p.record(log, coremetrics.RunEvent{
		RunID:     runID,
		Time:      started,
		Status:    StatusFailed,
		Sense:     p.optimizer.Sense().String(),
		Shipments: len(shipments),
		Carriers:  scores.Len(),
		Scores:    scores.Map(),
		Err:       err.Error(),
	})
}

func (p *Pipeline) record(log logger.Logger, ev coremetrics.RunEvent) {
	if err := p.sink.RecordRun(ev); err != nil {
		log.Warnf("record metrics: %v", err)
		p.monitor.CaptureException(err, map[string]string{coremon.TagRunID: ev.RunID, coremon.TagStage: "metrics"})
	}
}

func (p *Pipeline) publish(ctx context.Context, log logger.Logger, rep *Report) {
	payload, err := export.Marshal(rep.Document())
	if err == nil {
		err = p.publisher.Publish(ctx, payload)
	}
	if err != nil {
		log.Warnf("publish result: %v", err)
		p.monitor.CaptureException(err, map[string]string{coremon.TagRunID: rep.RunID, coremon.TagStage: "publish"})
	}
}

// Close releases the publisher and the metrics sink and flushes the monitor.
func (p *Pipeline) Close() error {
	p.publisher.Close()
	var err error
	if c, ok := p.sink.(io.Closer); ok {
		err = c.Close()
	}
	p.monitor.Flush(2 * time.Second)
	return err
}

// ErrorKind classifies err by the failure kinds of the assignment workflow.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrInput):
		return "input"
	case errors.Is(err, model.ErrScoring):
		return "scoring"
	case errors.Is(err, model.ErrSolver):
		return "solver"
	case errors.Is(err, model.ErrExtraction):
		return "extraction"
	default:
		return "internal"
	}
}
