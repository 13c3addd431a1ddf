package intent

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 意图执行指标
type Metrics struct {
	started   *prometheus.CounterVec
	confirmed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics 创建并注册意图指标
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridsnake",
			Subsystem: "intent",
			Name:      "started_total",
			Help:      "启动的意图总数",
		}, []string{"kind"}),
		confirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridsnake",
			Subsystem: "intent",
			Name:      "confirmed_total",
			Help:      "确认成功的意图总数",
		}, []string{"kind"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridsnake",
			Subsystem: "intent",
			Name:      "failed_total",
			Help:      "失败的意图总数",
		}, []string{"kind", "stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridsnake",
			Subsystem: "intent",
			Name:      "duration_seconds",
			Help:      "意图从启动到终态的耗时",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(m.started, m.confirmed, m.failed, m.duration)
	}
	return m
}

func (m *Metrics) observeStart(kind Kind) {
	if m == nil {
		return
	}
	m.started.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) observeConfirmed(kind Kind, seconds float64) {
	if m == nil {
		return
	}
	m.confirmed.WithLabelValues(string(kind)).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(seconds)
}

func (m *Metrics) observeFailed(kind Kind, stage string, seconds float64) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(string(kind), stage).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(seconds)
}
