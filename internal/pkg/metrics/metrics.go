package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Listing pipeline phases
const (
	PhaseCount = "count"
	PhasePage  = "page"
	PhaseMedia = "media"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Listing metrics
	ListingPhaseDuration *prometheus.HistogramVec
	PresignFailures      *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Worker metrics
	CleanupEvents *prometheus.CounterVec
}

// New registers every metric on a fresh registry, together with the Go and
// process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		ListingPhaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listing_phase_duration_seconds",
				Help:    "Duration of count, page and media phases of listing requests",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"entity", "phase"},
		),
		PresignFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_presign_failures_total",
				Help: "Media items returned with an empty URL because signing failed",
			},
			[]string{"entity"},
		),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),

		CleanupEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_cleanup_events_total",
				Help: "Media cleanup events by outcome",
			},
			[]string{"result"}, // processed, failed, dropped
		),
	}
}

// ObservePhase records the time spent in one listing phase since start.
// A nil receiver is a no-op so collaborators can run without metrics.
func (m *Metrics) ObservePhase(entity, phase string, start time.Time) {
	if m == nil {
		return
	}
	m.ListingPhaseDuration.WithLabelValues(entity, phase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) PresignFailed(entity string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.PresignFailures.WithLabelValues(entity).Add(float64(n))
}

func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(cache).Inc()
}

func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(cache).Inc()
}

func (m *Metrics) Cleanup(result string) {
	if m == nil {
		return
	}
	m.CleanupEvents.WithLabelValues(result).Inc()
}
