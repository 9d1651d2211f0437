package metrics

import (
	"errors"

	"github.com/kilianp07/carrierassign/core/factory"
	coremetrics "github.com/kilianp07/carrierassign/core/metrics"
)

// DefaultPushJob is the Pushgateway job name used when none is configured.
const DefaultPushJob = "carrierassign"

// ErrPushgatewayRequired is returned for a prometheus sink without a
// pushgateway_url.
var ErrPushgatewayRequired = errors.New("metrics: prometheus sink requires pushgateway_url")

// PromConfig is the conf block of a "prometheus" sink. A batch run exits
// before any scrape, so the registry is always pushed to a Pushgateway.
type PromConfig struct {
	PushgatewayURL string `json:"pushgateway_url"`
	Job            string `json:"job"`
}

// InfluxConfig is the conf block of an "influx" sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

func init() {
	coremetrics.MustRegisterMetricsSink("nop", buildNop)
	coremetrics.MustRegisterMetricsSink("prometheus", buildProm)
	coremetrics.MustRegisterMetricsSink("influx", buildInflux)
}

func buildNop(map[string]any) (coremetrics.MetricsSink, error) {
	return coremetrics.NopSink{}, nil
}

func buildProm(conf map[string]any) (coremetrics.MetricsSink, error) {
	var c PromConfig
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if c.PushgatewayURL == "" {
		return nil, ErrPushgatewayRequired
	}
	if c.Job == "" {
		c.Job = DefaultPushJob
	}
	sink, err := NewPushingPromSink(c.PushgatewayURL, c.Job)
	if err != nil {
		return nil, err
	}
	return sink, nil
}

func buildInflux(conf map[string]any) (coremetrics.MetricsSink, error) {
	var c InfluxConfig
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	return NewInfluxSinkWithFallback(c), nil
}
