package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/carrierassign/core/logger"
	coremetrics "github.com/kilianp07/carrierassign/core/metrics"
	infralogger "github.com/kilianp07/carrierassign/infra/logger"
)

// InfluxSink writes run events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

const influxTimeout = 5 * time.Second

// NewInfluxSink creates a sink for the given endpoint. A URL ending in the
// v2 write path is accepted as well as the server root.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(strings.TrimSuffix(cfg.URL, "/"), "/api/v2/write")
	opts := influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: influxTimeout})
	client := influxdb2.NewClientWithOptions(base, cfg.Token, opts)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback returns a NopSink when the server does not
// report a passing health check.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one optimization_run point and, for successful runs, one
// carrier_assignment point per carrier.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, runPoints(ev)...)
}

func runPoints(ev coremetrics.RunEvent) []*write.Point {
	run := write.NewPointWithMeasurement("optimization_run").
		AddTag("run_id", ev.RunID).
		AddTag("status", ev.Status).
		AddTag("sense", ev.Sense).
		AddField("shipments", ev.Shipments).
		AddField("carriers", ev.Carriers).
		SetTime(ev.Time)
	if !ev.Succeeded() {
		run = run.AddField("error", ev.Err)
		return []*write.Point{run}
	}
	run = run.AddField("carriers_used", ev.CarriersUsed).
		AddField("objective", round6(ev.Objective)).
		AddField("solve_ms", round6(ev.SolveDuration.Seconds()*1000))
	points := []*write.Point{run}
	for _, c := range ev.SortedCarriers() {
		points = append(points, write.NewPointWithMeasurement("carrier_assignment").
			AddTag("run_id", ev.RunID).
			AddTag("carrier", c).
			AddField("shipments", ev.Assigned[c]).
			AddField("score", round6(ev.Scores[c])).
			SetTime(ev.Time))
	}
	return points
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
