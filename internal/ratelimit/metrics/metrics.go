package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	decisions     *prometheus.CounterVec
	storeFailures prometheus.Counter
	degraded      prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotter_ratelimit_decisions_total",
			Help: "Rate limit decisions by result",
		}, []string{"result"}),
		storeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spotter_ratelimit_store_failures_total",
			Help: "Primary rate limit store errors",
		}),
		degraded: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "spotter_ratelimit_degraded",
			Help: "1 while the in-memory fallback is serving decisions",
		}),
	}
}

func (m *Metrics) IncDecision(allowed bool) {
	if m == nil {
		return
	}
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.decisions.WithLabelValues(result).Inc()
}

func (m *Metrics) IncStoreFailure() {
	if m == nil {
		return
	}
	m.storeFailures.Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.degraded.Set(1)
		return
	}
	m.degraded.Set(0)
}
