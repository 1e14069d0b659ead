// Package observability provides Prometheus metrics for the EcoTachos engine.
package observability

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	Backend    *metrics.BackendMetrics
	Submission *metrics.SubmissionMetrics
	Loader     *metrics.LoaderMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors
// on a private registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	backendMetrics, err := metrics.NewBackendMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend metrics: %w", err)
	}

	submissionMetrics, err := metrics.NewSubmissionMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission metrics: %w", err)
	}

	loaderMetrics, err := metrics.NewLoaderMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		Backend:    backendMetrics,
		Submission: submissionMetrics,
		Loader:     loaderMetrics,
	}, nil
}

// RegisterHandlers registers the metrics endpoint with the provided http.ServeMux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	}))
}
