package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the API's Prometheus collectors.
type Metrics struct {
	Calculations    *prometheus.CounterVec
	Duration        prometheus.Histogram
	Options         prometheus.Histogram
	Searches        prometheus.Counter
	SearchCacheHits prometheus.Counter
}

// NewMetrics registers the API collectors on reg. A nil reg creates a
// private registry, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spcalc",
			Name:      "calculations_total",
			Help:      "SP-coding calculations by outcome.",
		}, []string{"status"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spcalc",
			Name:      "calculation_duration_seconds",
			Help:      "Time spent handling calculation requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		Options: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spcalc",
			Name:      "semester_options",
			Help:      "Feasible SP-coding options per semester.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}),
		Searches: f.NewCounter(prometheus.CounterOpts{
			Namespace: "spcalc",
			Name:      "module_searches_total",
			Help:      "Catalog search requests.",
		}),
		SearchCacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "spcalc",
			Name:      "module_search_cache_hits_total",
			Help:      "Catalog searches answered from the cache.",
		}),
	}
}

func (m *Metrics) observeCalculation(status string, start time.Time) {
	m.Calculations.WithLabelValues(status).Inc()
	m.Duration.Observe(time.Since(start).Seconds())
}
