package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LoaderMetrics contains Prometheus metrics for analytics loads
type LoaderMetrics struct {
	loadsTotal       *prometheus.CounterVec
	loadDuration     prometheus.Histogram
	latestGeneration prometheus.Gauge
	groupDetections  *prometheus.GaugeVec
	droppedRecords   *prometheus.CounterVec
}

// NewLoaderMetrics creates and registers new loader metrics
func NewLoaderMetrics(registry *prometheus.Registry) (*LoaderMetrics, error) {
	m := &LoaderMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LoaderMetrics) initMetrics() {
	m.loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecotachos_loads_total",
			Help: "Total number of analytics loads by result",
		},
		[]string{"result"}, // result: applied, stale, failed
	)

	m.loadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecotachos_load_duration_seconds",
			Help:    "Time taken to fetch and derive one analytics snapshot",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount14),
		},
	)

	m.latestGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecotachos_load_applied_generation",
			Help: "Generation token of the last applied load",
		},
	)

	m.groupDetections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ecotachos_group_detections",
			Help: "Detections per ownership group in the last applied snapshot",
		},
		[]string{"group"}, // group: personal, company, public
	)

	m.droppedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecotachos_records_dropped_total",
			Help: "Backend records dropped during normalization",
		},
		[]string{"kind"}, // kind: container, detection
	)
}

func (m *LoaderMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.loadsTotal,
		m.loadDuration,
		m.latestGeneration,
		m.groupDetections,
		m.droppedRecords,
	}
}

// Describe implements the Collector interface
func (m *LoaderMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *LoaderMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordLoad records a finished load and its result
func (m *LoaderMetrics) RecordLoad(result string, seconds float64) {
	m.loadsTotal.WithLabelValues(result).Inc()
	m.loadDuration.Observe(seconds)
}

// SetAppliedGeneration records the generation of the snapshot now in effect
func (m *LoaderMetrics) SetAppliedGeneration(generation uint64) {
	m.latestGeneration.Set(float64(generation))
}

// SetGroupDetections records the detection count of one ownership group
func (m *LoaderMetrics) SetGroupDetections(group string, count int) {
	m.groupDetections.WithLabelValues(group).Set(float64(count))
}

// AddDroppedRecords counts records discarded by the normalizer
func (m *LoaderMetrics) AddDroppedRecords(kind string, count int) {
	if count > 0 {
		m.droppedRecords.WithLabelValues(kind).Add(float64(count))
	}
}
