package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmap_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// POI query service
	OverpassRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_overpass_requests_total",
			Help: "Overpass queries by outcome",
		},
		[]string{"outcome"}, // success, api_error, network_error, timeout, rejected, cancelled, decode_error
	)

	OverpassRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodmap_overpass_request_duration_seconds",
			Help:    "Overpass query latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodmap_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Place cache
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moodmap_place_cache_hits_total",
		Help: "Place cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moodmap_place_cache_misses_total",
		Help: "Place cache misses",
	})

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_place_cache_evictions_total",
			Help: "Place cache evictions by reason",
		},
		[]string{"reason"}, // expired, drift, clear
	)

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moodmap_place_cache_entries",
		Help: "Current number of cached result sets",
	})

	// Discovery engine
	RadiusExpansions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_discovery_radius_expansions_total",
			Help: "Radius expansions performed because too few places were found",
		},
		[]string{"mood"},
	)

	FallbackQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmap_discovery_fallback_queries_total",
			Help: "Fallback-tag queries issued",
		},
		[]string{"mood"},
	)

	DroppedElements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moodmap_discovery_dropped_elements_total",
		Help: "Upstream elements dropped for invalid coordinates or distance",
	})

	PlacesReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmap_discovery_places_returned",
			Help:    "Number of places returned per fetch",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 30, 60},
		},
		[]string{"mood"},
	)
)

// RecordAPIRequest records a served HTTP request.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOverpassRequest records one upstream query.
func RecordOverpassRequest(outcome string, duration time.Duration) {
	OverpassRequests.WithLabelValues(outcome).Inc()
	OverpassRequestDuration.Observe(duration.Seconds())
}
