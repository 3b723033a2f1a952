package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	badgesAwarded      *prometheus.CounterVec
	awardFailures      *prometheus.CounterVec
	evaluationFailures prometheus.Counter
	evaluationLatency  prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		badgesAwarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotter_badges_awarded_total",
			Help: "Badges newly inserted, by badge type",
		}, []string{"badge_type"}),
		awardFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotter_badge_award_failures_total",
			Help: "Badge upserts that failed, by badge type",
		}, []string{"badge_type"}),
		evaluationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spotter_award_evaluation_failures_total",
			Help: "Award evaluations abandoned because visit counts could not be read",
		}),
		evaluationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spotter_award_evaluation_duration_seconds",
			Help:    "Award evaluation latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncBadgeAwarded(badgeType string) {
	if m == nil {
		return
	}
	m.badgesAwarded.WithLabelValues(badgeType).Inc()
}

func (m *Metrics) IncAwardFailure(badgeType string) {
	if m == nil {
		return
	}
	m.awardFailures.WithLabelValues(badgeType).Inc()
}

func (m *Metrics) IncEvaluationFailure() {
	if m == nil {
		return
	}
	m.evaluationFailures.Inc()
}

func (m *Metrics) ObserveEvaluation(seconds float64) {
	if m == nil {
		return
	}
	m.evaluationLatency.Observe(seconds)
}
