// Package metrics defines the sink interface used to record optimisation
// runs. Sinks like PromSink and InfluxSink live in infra/metrics, register
// themselves by name and can be combined with NewMultiSink. NewMetricsSink
// returns a MultiSink automatically when multiple sinks are configured.
package metrics
