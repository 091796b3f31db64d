// Package metrics provides Prometheus metrics for the songsim recommender.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the recommender.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Catalog Metrics - state of the loaded feature space
	catalogSongs          prometheus.Gauge
	featureDimensions     prometheus.Gauge
	zeroVarianceColumns   prometheus.Gauge
	catalogLoadDuration   prometheus.Histogram
	catalogLoads          prometheus.Counter
	catalogLoadErrors     prometheus.Counter
	catalogLastLoadedUnix prometheus.Gauge

	// Recommendation Metrics
	recommendations       prometheus.Counter
	emptyRecommendations  prometheus.Counter
	recommendLatency      prometheus.Histogram
	candidateCount        prometheus.Histogram
	recommendationsByMode *prometheus.CounterVec

	// Result Cache Metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// installed pairs the global manager with the registry it writes to.
type installed struct {
	manager  *Manager
	registry *prometheus.Registry
}

var current atomic.Pointer[installed] //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init replaces the global manager with one built from opts on a fresh
// custom registry, which GetRegistry returns from then on. Call it at
// startup, before any handler captures the registry.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(registry))...)
	current.Store(&installed{manager: m, registry: registry})
}

func active() *Manager {
	return current.Load().manager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "songsim",
		subsystem:        "recommender",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.catalogSongs = auto.NewGauge(prometheus.GaugeOpts(m.opts("catalog_songs", "Number of songs in the loaded catalog")))
	m.featureDimensions = auto.NewGauge(prometheus.GaugeOpts(m.opts("feature_dimensions", "Width of the feature matrix")))
	m.zeroVarianceColumns = auto.NewGauge(prometheus.GaugeOpts(m.opts("zero_variance_columns", "Feature columns that were constant across the catalog")))
	m.catalogLoadDuration = auto.NewHistogram(m.histogram("catalog_load_duration_milliseconds",
		"Time to load, vectorize and normalize the catalog",
		[]float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}))
	m.catalogLoads = auto.NewCounter(prometheus.CounterOpts(m.opts("catalog_loads_total", "Successful catalog builds")))
	m.catalogLoadErrors = auto.NewCounter(prometheus.CounterOpts(m.opts("catalog_load_errors_total", "Failed catalog builds")))
	m.catalogLastLoadedUnix = auto.NewGauge(prometheus.GaugeOpts(m.opts("catalog_last_loaded_unix", "Unix time of the last successful catalog build")))

	m.recommendations = auto.NewCounter(prometheus.CounterOpts(m.opts("recommendations_total", "Recommendation queries served")))
	m.emptyRecommendations = auto.NewCounter(prometheus.CounterOpts(m.opts("recommendations_empty_total", "Queries where no candidate survived filtering")))
	m.recommendLatency = auto.NewHistogram(m.histogram("recommend_latency_milliseconds",
		"Time to filter and rank one query", m.histogramBuckets))
	m.candidateCount = auto.NewHistogram(m.histogram("candidates",
		"Candidate set size per query",
		prometheus.ExponentialBuckets(1, 4, 10)))
	m.recommendationsByMode = auto.NewCounterVec(prometheus.CounterOpts(m.opts("recommendations_by_filter_total",
		"Recommendation queries by filter combination")), []string{"popularity", "genre"})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts(m.opts("result_cache_hits_total", "Result cache hits")))
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts(m.opts("result_cache_misses_total", "Result cache misses")))

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts(m.opts("http_requests_total",
		"Total number of HTTP requests by endpoint and method")), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts(m.opts("errors_by_component_total",
		"Errors by component and type")), []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts(m.opts("errors_by_endpoint_total",
		"Errors by endpoint, method and type")), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts(m.opts("system_memory_usage_bytes", "System memory usage in bytes")))
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts(m.opts("system_goroutine_count", "Number of goroutines")))
}

// Catalog Metrics Functions.

// UpdateCatalog records the shape of a freshly built catalog.
func UpdateCatalog(songs, dimensions, zeroVariance int) {
	active().catalogSongs.Set(float64(songs))
	active().featureDimensions.Set(float64(dimensions))
	active().zeroVarianceColumns.Set(float64(zeroVariance))
	active().catalogLoads.Inc()
	active().catalogLastLoadedUnix.SetToCurrentTime()
}

// RecordCatalogLoadDuration records a catalog build duration in milliseconds.
func RecordCatalogLoadDuration(durationMs float64) {
	active().catalogLoadDuration.Observe(durationMs)
}

// RecordCatalogLoadError increments the failed build counter.
func RecordCatalogLoadError() {
	active().catalogLoadErrors.Inc()
}

// Recommendation Metrics Functions.

// RecordRecommendation records one served query.
func RecordRecommendation(popularity, genre string, candidates, results int, latencyMs float64) {
	active().recommendations.Inc()
	active().recommendationsByMode.WithLabelValues(popularity, genre).Inc()
	active().candidateCount.Observe(float64(candidates))
	active().recommendLatency.Observe(latencyMs)
	if results == 0 {
		active().emptyRecommendations.Inc()
	}
}

// RecordCacheHit increments the result cache hit counter.
func RecordCacheHit() {
	active().cacheHits.Inc()
}

// RecordCacheMiss increments the result cache miss counter.
func RecordCacheMiss() {
	active().cacheMisses.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	active().httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	active().httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	active().errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	active().errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	active().systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	active().systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return current.Load().registry
}
