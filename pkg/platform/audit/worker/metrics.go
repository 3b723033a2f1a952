package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	published *prometheus.CounterVec
	failed    prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		published: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotter_outbox_published_total",
			Help: "Outbox entries acknowledged by Kafka, by event type",
		}, []string{"event_type"}),
		failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spotter_outbox_publish_failures_total",
			Help: "Outbox entries Kafka failed to acknowledge",
		}),
	}
}

func (m *Metrics) IncPublished(eventType string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(eventType).Inc()
}

func (m *Metrics) IncFailed() {
	if m == nil {
		return
	}
	m.failed.Inc()
}
