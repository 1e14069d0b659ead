package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// SubmissionMetrics contains Prometheus metrics for detection submissions
type SubmissionMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	imageBytes         prometheus.Histogram
	inFlight           prometheus.Gauge
}

// NewSubmissionMetrics creates and registers new submission metrics
func NewSubmissionMetrics(registry *prometheus.Registry) (*SubmissionMetrics, error) {
	m := &SubmissionMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SubmissionMetrics) initMetrics() {
	m.submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecotachos_submissions_total",
			Help: "Total number of detection submissions by outcome",
		},
		[]string{"outcome", "has_location"},
	)

	m.submissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecotachos_submission_duration_seconds",
			Help:    "Time from validation to backend response",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount14),
		},
	)

	m.imageBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecotachos_submission_image_bytes",
			Help:    "Size of the prepared JPEG image",
			Buckets: prometheus.ExponentialBuckets(BucketStart10KB, BucketFactor4, BucketCount6), // 10KB to ~10MB
		},
	)

	m.inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecotachos_submission_in_flight",
			Help: "1 while a submission is in progress",
		},
	)
}

func (m *SubmissionMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.submissionsTotal,
		m.submissionDuration,
		m.imageBytes,
		m.inFlight,
	}
}

// Describe implements the Collector interface
func (m *SubmissionMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *SubmissionMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordSubmission records a finished submission
func (m *SubmissionMetrics) RecordSubmission(outcome string, hasLocation bool, seconds float64) {
	loc := "false"
	if hasLocation {
		loc = "true"
	}
	m.submissionsTotal.WithLabelValues(outcome, loc).Inc()
	m.submissionDuration.Observe(seconds)
}

// RecordImageSize records the encoded size of an uploaded image
func (m *SubmissionMetrics) RecordImageSize(bytes int64) {
	m.imageBytes.Observe(float64(bytes))
}

// SetInFlight marks whether a submission is running
func (m *SubmissionMetrics) SetInFlight(active bool) {
	if active {
		m.inFlight.Set(1)
		return
	}
	m.inFlight.Set(0)
}

// InFlight returns the current in-flight gauge value
func (m *SubmissionMetrics) InFlight() float64 {
	metric := &dto.Metric{}
	if err := m.inFlight.Write(metric); err != nil {
		return 0
	}
	if metric.Gauge != nil && metric.Gauge.Value != nil {
		return *metric.Gauge.Value
	}
	return 0
}
