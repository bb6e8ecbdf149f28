package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "countdown"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	intents      *prom.CounterVec
	droppedTicks prom.Counter
	arms         prom.Counter
	disarms      prom.Counter
	currentTime  prom.Gauge
	running      prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		intents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Applied intents by kind",
		}, []string{"kind"}),
		droppedTicks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_ticks_total",
			Help:      "Ticks discarded because their session was canceled",
		}),
		arms: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "arms_total",
			Help:      "Periodic sessions started",
		}),
		disarms: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "disarms_total",
			Help:      "Periodic sessions canceled",
		}),
		currentTime: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "current_time",
			Help:      "Remaining count",
		}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while the countdown is running",
		}),
	}
	reg.MustRegister(pr.intents, pr.droppedTicks, pr.arms, pr.disarms, pr.currentTime, pr.running)
	return pr
}

func (p *PrometheusRecorder) IncIntent(kind string) {
	if p == nil {
		return
	}
	p.intents.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncDroppedTick() {
	if p == nil {
		return
	}
	p.droppedTicks.Inc()
}

func (p *PrometheusRecorder) IncSchedulerArm() {
	if p == nil {
		return
	}
	p.arms.Inc()
}

func (p *PrometheusRecorder) IncSchedulerDisarm() {
	if p == nil {
		return
	}
	p.disarms.Inc()
}

func (p *PrometheusRecorder) SetCurrentTime(n int) {
	if p == nil {
		return
	}
	p.currentTime.Set(float64(n))
}

func (p *PrometheusRecorder) SetRunning(running bool) {
	if p == nil {
		return
	}
	if running {
		p.running.Set(1)
		return
	}
	p.running.Set(0)
}
