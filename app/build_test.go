package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/carrierassign/config"
	"github.com/kilianp07/carrierassign/core/factory"
)

func defaultConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SetDefaults()
	return cfg
}

// V44_3 is never late (score 1), V444_1 averages three days (score 0.25).
func TestNew_RunsDataset(t *testing.T) {
	p, err := New(defaultConfig())
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	rep, err := p.Run(context.Background(), "testdata/shipments.csv")
	require.NoError(t, err)
	assert.Len(t, rep.Result.Assignment, 5)
	assert.Equal(t, "V44_3", rep.Summary.ModalCarrier)
	assert.InDelta(t, 5.0, rep.Summary.Objective, 1e-9)
	assert.Equal(t, "1447296447", rep.Shipments[0].Label)
}

func TestNew_MinimizeWithEnumeration(t *testing.T) {
	cfg := defaultConfig()
	cfg.Optimizer.Sense = "minimize"
	cfg.Optimizer.Solver = factory.ModuleConfig{Type: "enumerate"}
	p, err := New(cfg)
	require.NoError(t, err)

	rep, err := p.Run(context.Background(), "testdata/shipments.csv")
	require.NoError(t, err)
	assert.Equal(t, "V444_1", rep.Summary.ModalCarrier)
	assert.InDelta(t, 5*0.25, rep.Summary.Objective, 1e-9)
}

func TestNew_InvalidSolver(t *testing.T) {
	cfg := defaultConfig()
	cfg.Optimizer.Solver = factory.ModuleConfig{Type: "cplex"}
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_InvalidSink(t *testing.T) {
	cfg := defaultConfig()
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "statsd"}}
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	p := NewPipeline(nil, WithLoader(twoCarrierLoader))
	rep, err := p.Run(context.Background(), "mem")
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, WriteReport(&text, config.FormatText, rep))
	assert.Contains(t, text.String(), "--- Optimization Summary ---")
	assert.Contains(t, text.String(), "Most frequently assigned carrier: A")

	var js bytes.Buffer
	require.NoError(t, WriteReport(&js, config.FormatJSON, rep))
	assert.Contains(t, js.String(), `"run_id"`)

	var csv bytes.Buffer
	require.NoError(t, WriteReport(&csv, config.FormatCSV, rep))
	assert.Len(t, strings.Split(strings.TrimSpace(csv.String()), "\n"), 4)

	assert.Error(t, WriteReport(&text, "xml", rep))
}
