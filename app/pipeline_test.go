package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/carrierassign/core/metrics"
	coremon "github.com/kilianp07/carrierassign/core/monitoring"
	"github.com/kilianp07/carrierassign/core/model"
	"github.com/kilianp07/carrierassign/core/optimize"
	"github.com/kilianp07/carrierassign/infra/dataset"
	infralogger "github.com/kilianp07/carrierassign/infra/logger"
	"github.com/kilianp07/carrierassign/infra/mqtt"
	"github.com/kilianp07/carrierassign/pkg/export"
)

type recordSink struct {
	mu     sync.Mutex
	events []coremetrics.RunEvent
	err    error
}

func (s *recordSink) RecordRun(ev coremetrics.RunEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func ship(i int, carrier string, late float64) model.Shipment {
	return model.Shipment{Index: i, Carrier: carrier, LateDays: late}
}

// Carrier A is never late (score 1.0), carrier B is four days late on
// average (score 0.2).
func twoCarrierLoader(string) ([]model.Shipment, error) {
	return []model.Shipment{ship(0, "A", 0), ship(1, "B", 4), ship(2, "B", 4)}, nil
}

func fixedID() string { return "run-42" }

func newTestPipeline(opt *optimize.Optimizer, opts ...Option) *Pipeline {
	p := NewPipeline(opt, opts...)
	p.newID = fixedID
	return p
}

func TestRun_LogsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	log := infralogger.NewZerologLoggerWithWriter("pipeline", &buf)
	p := newTestPipeline(optimize.New(nil), WithLoader(twoCarrierLoader), WithLogger(log))

	_, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, `"run_id":"run-42"`)
		assert.NotContains(t, line, "run run-42")
	}
}

func TestRun_Maximize(t *testing.T) {
	sink := &recordSink{}
	pub := mqtt.NewMockPublisher()
	p := newTestPipeline(optimize.New(nil), WithLoader(twoCarrierLoader), WithMetrics(sink), WithPublisher(pub))

	rep, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)
	assert.Equal(t, "run-42", rep.RunID)
	require.Len(t, rep.Result.Assignment, 3)
	for i := 0; i < 3; i++ {
		assert.Equal(t, "A", rep.Result.Assignment[i])
	}
	assert.InDelta(t, 3.0, rep.Summary.Objective, 1e-9)
	assert.Equal(t, "maximize", rep.Summary.Sense)
	assert.Equal(t, 3, rep.Summary.Shipments)
	assert.Equal(t, 1, rep.Summary.DistinctCarriers)
	assert.Equal(t, "A", rep.Summary.ModalCarrier)

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.True(t, ev.Succeeded())
	assert.Equal(t, "optimal", ev.Status)
	assert.Equal(t, map[string]int{"A": 3}, ev.Assigned)
	assert.Equal(t, 2, ev.Carriers)

	payloads := pub.Published()
	require.Len(t, payloads, 1)
	var doc export.Document
	require.NoError(t, json.Unmarshal(payloads[0], &doc))
	assert.Equal(t, "run-42", doc.RunID)
	assert.Len(t, doc.Assignments, 3)
}

func TestRun_Minimize(t *testing.T) {
	p := newTestPipeline(optimize.New(nil, optimize.WithSense(optimize.Minimize)), WithLoader(twoCarrierLoader))
	rep, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, "B", rep.Result.Assignment[i])
	}
	assert.InDelta(t, 0.6, rep.Result.Objective, 1e-9)
}

func TestRun_SingleCarrier(t *testing.T) {
	loader := func(string) ([]model.Shipment, error) {
		return []model.Shipment{ship(0, "Solo", 1), ship(1, "Solo", 1), ship(2, "Solo", 1), ship(3, "Solo", 1)}, nil
	}
	p := newTestPipeline(optimize.New(optimize.EnumerationSolver{}), WithLoader(loader))
	rep, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)
	assert.InDelta(t, 4*0.5, rep.Result.Objective, 1e-9)
	assert.Equal(t, 1, rep.Summary.DistinctCarriers)
}

func TestRun_MissingCarrierFieldNeverSolves(t *testing.T) {
	calls := 0
	solver := optimize.SolverFunc(func(context.Context, *optimize.Problem) (optimize.Solution, error) {
		calls++
		return optimize.Solution{}, nil
	})
	loader := func(string) ([]model.Shipment, error) {
		data := "Order Date,Ship Late Day count,Ship ahead day count,Unit quantity,Weight\n2013-05-26,0,3,808,14.3\n"
		return dataset.ReadCSV(strings.NewReader(data), dataset.Options{})
	}
	sink := &recordSink{}
	mon := &coremon.Recorder{}
	p := newTestPipeline(optimize.New(solver), WithLoader(loader), WithMetrics(sink), WithMonitor(mon))

	rep, err := p.Run(context.Background(), "mem")
	assert.Nil(t, rep)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInput)
	assert.ErrorIs(t, err, dataset.ErrMissingField)
	assert.Equal(t, 0, calls)

	require.Len(t, mon.Reports(), 1)
	assert.Equal(t, "input", mon.Reports()[0].Tags["kind"])
	assert.Equal(t, "run-42", mon.Reports()[0].Tags["run_id"])
	require.Len(t, sink.events, 1)
	assert.Equal(t, StatusFailed, sink.events[0].Status)
	assert.False(t, sink.events[0].Succeeded())
}

func TestRun_SolverFailure(t *testing.T) {
	solver := optimize.SolverFunc(func(context.Context, *optimize.Problem) (optimize.Solution, error) {
		return optimize.Solution{Status: optimize.StatusInfeasible}, nil
	})
	mon := &coremon.Recorder{}
	pub := mqtt.NewMockPublisher()
	p := newTestPipeline(optimize.New(solver), WithLoader(twoCarrierLoader), WithMonitor(mon), WithPublisher(pub))

	_, err := p.Run(context.Background(), "mem")
	require.Error(t, err)
	assert.ErrorIs(t, err, optimize.ErrNotOptimal)
	assert.ErrorIs(t, err, model.ErrSolver)
	require.Len(t, mon.Reports(), 1)
	assert.Equal(t, "solver", mon.Reports()[0].Tags["kind"])
	assert.Empty(t, pub.Published())
}

func TestRun_Timeout(t *testing.T) {
	solver := optimize.SolverFunc(func(ctx context.Context, _ *optimize.Problem) (optimize.Solution, error) {
		<-ctx.Done()
		return optimize.Solution{Status: optimize.StatusNotSolved}, ctx.Err()
	})
	p := newTestPipeline(optimize.New(solver), WithLoader(twoCarrierLoader), WithTimeout(10*time.Millisecond))

	_, err := p.Run(context.Background(), "mem")
	require.Error(t, err)
	assert.ErrorIs(t, err, optimize.ErrSolverTimeout)
	assert.ErrorIs(t, err, optimize.ErrNotOptimal)
}

func TestRun_ScoringFailure(t *testing.T) {
	loader := func(string) ([]model.Shipment, error) {
		return []model.Shipment{ship(0, "A", 0), {Index: 1, Carrier: "B", LateDays: math.NaN()}}, nil
	}
	mon := &coremon.Recorder{}
	p := newTestPipeline(optimize.New(nil), WithLoader(loader), WithMonitor(mon))
	_, err := p.Run(context.Background(), "mem")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrScoring)
	assert.Equal(t, "scoring", mon.Reports()[0].Tags["kind"])
}

func TestRun_PublishAndMetricsFailuresAreReported(t *testing.T) {
	sink := &recordSink{err: errors.New("sink down")}
	pub := mqtt.NewMockPublisher()
	pub.Fail = true
	mon := &coremon.Recorder{}
	p := newTestPipeline(optimize.New(nil), WithLoader(twoCarrierLoader), WithMetrics(sink), WithPublisher(pub), WithMonitor(mon))

	rep, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)
	require.NotNil(t, rep)
	require.Len(t, mon.Reports(), 2)
	assert.Equal(t, "metrics", mon.Reports()[0].Tags["stage"])
	assert.Equal(t, "publish", mon.Reports()[1].Tags["stage"])
}

func TestRun_IsStateless(t *testing.T) {
	p := NewPipeline(optimize.New(nil), WithLoader(twoCarrierLoader))
	first, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)
	second, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Result.Assignment, second.Result.Assignment)
}

func TestScores(t *testing.T) {
	p := NewPipeline(nil, WithLoader(twoCarrierLoader))
	scores, err := p.Scores("mem")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, scores.Carriers())
	b, ok := scores.Score("B")
	require.True(t, ok)
	assert.InDelta(t, 0.2, b, 1e-12)
}

func TestClose(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	mon := &coremon.Recorder{}
	p := NewPipeline(nil, WithPublisher(pub), WithMonitor(mon))
	require.NoError(t, p.Close())
	assert.True(t, pub.Closed)
	assert.True(t, mon.Flushed())
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "input", ErrorKind(dataset.ErrEmptyDataset))
	assert.Equal(t, "extraction", ErrorKind(optimize.ErrFractional))
	assert.Equal(t, "internal", ErrorKind(errors.New("boom")))
}
