// Package metrics provides Prometheus metrics for the roster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the roster service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Snapshot metrics - cache rebuild behavior
	snapshotRebuilds        prometheus.Counter
	snapshotRebuildDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	cacheHits               prometheus.Counter
	cacheInvalidations      prometheus.Counter

	// Join quality metrics
	fetchErrors      *prometheus.CounterVec
	malformedRows    prometheus.Counter
	guestPeople      prometheus.Counter
	placeholderSlots prometheus.Counter

	// Write path metrics
	scheduleWrites      prometheus.Counter
	scheduleWriteErrors prometheus.Counter
	seededRows          prometheus.Counter

	// Scale gauges
	totalSundays    prometheus.Gauge
	directoryPeople prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rosterd",
		subsystem:        "schedule",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.snapshotRebuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_rebuilds_total",
		Help:      "Total number of full three-collection snapshot rebuilds",
	})

	m.snapshotRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_rebuild_duration_milliseconds",
		Help:      "Histogram of snapshot rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_rebuild_timestamp_seconds",
		Help:      "Unix time of the last successful snapshot rebuild",
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of reads served from the cached snapshot",
	})

	m.cacheInvalidations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_invalidations_total",
		Help:      "Total number of snapshot invalidations after writes",
	})

	m.fetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fetch_errors_total",
			Help:      "Total number of collaborator fetch failures by source",
		},
		[]string{"source"},
	)

	m.malformedRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_rows_skipped_total",
		Help:      "Total number of schedule rows skipped during assembly",
	})

	m.guestPeople = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guest_people_synthesized_total",
		Help:      "Total number of guest people synthesized for unresolved names",
	})

	m.placeholderSlots = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "placeholder_slots_synthesized_total",
		Help:      "Total number of open placeholder slots synthesized",
	})

	m.scheduleWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schedule_writes_total",
		Help:      "Total number of successful schedule row upserts",
	})

	m.scheduleWriteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schedule_write_errors_total",
		Help:      "Total number of rejected schedule writes",
	})

	m.seededRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seeded_rows_total",
		Help:      "Total number of schedule rows written by the rotation seeder",
	})

	m.totalSundays = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_sundays",
		Help:      "Number of Sundays in the current snapshot",
	})

	m.directoryPeople = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "directory_people",
		Help:      "Number of directory people in the current snapshot",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint, method and type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of requests that ended in an error",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)
}

// Package-level helpers recording against the global manager.

// RecordSnapshotRebuild records one completed snapshot rebuild.
func RecordSnapshotRebuild(durationMs float64, completedUnix float64) {
	globalManager.snapshotRebuilds.Inc()
	globalManager.snapshotRebuildDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(completedUnix)
}

// RecordCacheHit records a read served from the cached snapshot.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheInvalidation records a snapshot invalidation.
func RecordCacheInvalidation() {
	globalManager.cacheInvalidations.Inc()
}

// RecordFetchError records a collaborator fetch failure.
func RecordFetchError(source string) {
	globalManager.fetchErrors.WithLabelValues(source).Inc()
}

// RecordMalformedRow records a schedule row skipped during assembly.
func RecordMalformedRow() {
	globalManager.malformedRows.Inc()
}

// RecordGuestPerson records a synthesized guest person.
func RecordGuestPerson() {
	globalManager.guestPeople.Inc()
}

// RecordPlaceholderSlot records a synthesized open placeholder.
func RecordPlaceholderSlot() {
	globalManager.placeholderSlots.Inc()
}

// RecordScheduleWrite records a successful schedule upsert.
func RecordScheduleWrite() {
	globalManager.scheduleWrites.Inc()
}

// RecordScheduleWriteError records a rejected schedule write.
func RecordScheduleWriteError() {
	globalManager.scheduleWriteErrors.Inc()
}

// RecordSeededRows records rows written by the rotation seeder.
func RecordSeededRows(n int) {
	globalManager.seededRows.Add(float64(n))
}

// UpdateTotalSundays updates the snapshot Sunday count gauge.
func UpdateTotalSundays(n int) {
	globalManager.totalSundays.Set(float64(n))
}

// UpdateDirectoryPeople updates the snapshot directory size gauge.
func UpdateDirectoryPeople(n int) {
	globalManager.directoryPeople.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
