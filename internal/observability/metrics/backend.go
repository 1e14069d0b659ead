package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics contains Prometheus metrics for calls to the REST backend
type BackendMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	lookupCache     *prometheus.CounterVec
}

// NewBackendMetrics creates and registers new backend metrics
func NewBackendMetrics(registry *prometheus.Registry) (*BackendMetrics, error) {
	m := &BackendMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *BackendMetrics) initMetrics() {
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecotachos_backend_requests_total",
			Help: "Total number of backend requests",
		},
		[]string{"method", "endpoint", "status_code"}, // endpoint: tachos, detecciones, provincias
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecotachos_backend_request_duration_seconds",
			Help:    "Round-trip time of backend requests",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount14), // 1ms to ~8s
		},
		[]string{"method", "endpoint"},
	)

	m.requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecotachos_backend_request_errors_total",
			Help: "Total number of failed backend requests",
		},
		[]string{"endpoint", "error_type"}, // error_type: network, http_4xx, http_5xx, decode
	)

	m.lookupCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecotachos_backend_lookup_cache_total",
			Help: "Auxiliary lookup cache hits and misses",
		},
		[]string{"lookup", "result"}, // result: hit, miss
	)
}

func (m *BackendMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.requestErrors,
		m.lookupCache,
	}
}

// Describe implements the Collector interface
func (m *BackendMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *BackendMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordRequest records a completed backend request
func (m *BackendMetrics) RecordRequest(method, endpoint string, statusCode int, seconds float64) {
	m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// RecordError records a failed backend request
func (m *BackendMetrics) RecordError(endpoint, errorType string) {
	m.requestErrors.WithLabelValues(endpoint, errorType).Inc()
}

// RecordLookupCache records a lookup cache hit or miss
func (m *BackendMetrics) RecordLookupCache(lookup string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookupCache.WithLabelValues(lookup, result).Inc()
}
