// Package metrics exposes prometheus instrumentation for the caching
// layer. Counters are labeled by logical resource (like, follow,
// retweet, user, aggregate) so cache efficiency can be tracked per
// repository.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps the prometheus collectors for the cache and store layers.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	cacheErrors        *prometheus.CounterVec
	invalidationsTotal *prometheus.CounterVec
	invalidationErrors *prometheus.CounterVec
	storeDuration      *prometheus.HistogramVec
}

// Default histogram buckets for store query duration (in milliseconds).
var defaultBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}

var global *Metrics

// Init initializes the global metrics registry.
func Init(namespace string) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,

		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Cache hits by resource",
			},
			[]string{"resource"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Cache misses by resource",
			},
			[]string{"resource"},
		),
		cacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_errors_total",
				Help:      "Cache backend errors swallowed as misses, by resource",
			},
			[]string{"resource"},
		),
		invalidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_invalidations_total",
				Help:      "Cache keys struck by write fan-out, by resource",
			},
			[]string{"resource"},
		),
		invalidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_invalidation_errors_total",
				Help:      "Fan-out deletions that failed (left to expire by TTL), by resource",
			},
			[]string{"resource"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_query_duration_ms",
				Help:      "Authoritative store query duration in milliseconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		m.cacheHits, m.cacheMisses, m.cacheErrors,
		m.invalidationsTotal, m.invalidationErrors, m.storeDuration,
	)
	global = m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler() http.Handler {
	if global == nil {
		Init("finch")
	}
	return promhttp.HandlerFor(global.registry, promhttp.HandlerOpts{})
}

// CacheHit records a cache hit for a resource.
func CacheHit(resource string) {
	if global != nil {
		global.cacheHits.WithLabelValues(resource).Inc()
	}
}

// CacheMiss records a cache miss for a resource.
func CacheMiss(resource string) {
	if global != nil {
		global.cacheMisses.WithLabelValues(resource).Inc()
	}
}

// CacheError records a swallowed cache backend error.
func CacheError(resource string) {
	if global != nil {
		global.cacheErrors.WithLabelValues(resource).Inc()
	}
}

// Invalidations records n struck keys for a resource.
func Invalidations(resource string, n int) {
	if global != nil {
		global.invalidationsTotal.WithLabelValues(resource).Add(float64(n))
	}
}

// InvalidationError records a failed fan-out deletion.
func InvalidationError(resource string) {
	if global != nil {
		global.invalidationErrors.WithLabelValues(resource).Inc()
	}
}

// ObserveStore records the duration of a store query.
func ObserveStore(operation string, d time.Duration) {
	if global != nil {
		global.storeDuration.WithLabelValues(operation).Observe(float64(d.Milliseconds()))
	}
}
