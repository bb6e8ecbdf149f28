// Package metrics records countdown activity. The default Recorder is a
// no-op; PrometheusRecorder exports counters and gauges on a registry.
package metrics
