package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks venue directory cache behaviour.
type Metrics struct {
	cacheLookups *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		cacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spotter_venue_cache_lookups_total",
			Help: "Venue cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) IncCacheError() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("error").Inc()
}
