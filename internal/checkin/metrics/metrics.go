package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	outcomes       *prometheus.CounterVec
	distance       prometheus.Histogram
	riskLevels     *prometheus.CounterVec
	auditFailures  prometheus.Counter
	awardFailures  prometheus.Counter
	checkinLatency prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotter_checkin_outcomes_total",
			Help: "Check-in attempts by outcome",
		}, []string{"outcome"}),
		distance: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spotter_checkin_distance_meters",
			Help:    "Distance between reported position and venue",
			Buckets: []float64{5, 10, 25, 50, 80, 100, 150, 250, 500, 1000, 5000},
		}),
		riskLevels: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotter_spoof_assessments_total",
			Help: "Spoof assessments by risk level",
		}, []string{"level"}),
		auditFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spotter_checkin_audit_failures_total",
			Help: "Verification audit rows that could not be written",
		}),
		awardFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "spotter_checkin_award_failures_total",
			Help: "Accepted check-ins whose award evaluation failed",
		}),
		checkinLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spotter_checkin_duration_seconds",
			Help:    "End-to-end check-in latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDistance(meters float64) {
	if m == nil {
		return
	}
	m.distance.Observe(meters)
}

func (m *Metrics) IncRiskLevel(level string) {
	if m == nil {
		return
	}
	m.riskLevels.WithLabelValues(level).Inc()
}

func (m *Metrics) IncAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

func (m *Metrics) IncAwardFailure() {
	if m == nil {
		return
	}
	m.awardFailures.Inc()
}

func (m *Metrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.checkinLatency.Observe(seconds)
}
