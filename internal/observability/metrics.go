// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "citehist"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics holds the counters for one run. All methods are safe on a nil
// receiver so components can be used without metrics.
type Metrics struct {
	registry *prometheus.Registry

	// UpstreamRequests counts API calls by endpoint and outcome.
	UpstreamRequests *prometheus.CounterVec

	// PapersFetched counts paper records returned by the papers endpoint.
	PapersFetched prometheus.Counter

	// Attempts counts pipeline attempts made by the batch driver.
	Attempts prometheus.Counter

	// Authors counts batch authors by final outcome (success, skipped).
	Authors *prometheus.CounterVec
}

// NewMetrics registers the run counters on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Scholarly graph API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		PapersFetched: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_fetched_total",
			Help:      "Paper records returned by the papers endpoint.",
		}),
		Attempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_attempts_total",
			Help:      "Pipeline attempts made by the batch driver.",
		}),
		Authors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_authors_total",
			Help:      "Batch authors by final outcome.",
		}, []string{"outcome"}),
	}
}

// Registry returns the registry holding the run counters.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one upstream call.
func (m *Metrics) ObserveRequest(endpoint string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

// AddPapers records fetched paper records.
func (m *Metrics) AddPapers(n int) {
	if m == nil {
		return
	}
	m.PapersFetched.Add(float64(n))
}

// ObserveAttempt records one batch attempt.
func (m *Metrics) ObserveAttempt() {
	if m == nil {
		return
	}
	m.Attempts.Inc()
}

// ObserveAuthor records the final outcome of one batch author.
func (m *Metrics) ObserveAuthor(outcome string) {
	if m == nil {
		return
	}
	m.Authors.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the counters in Prometheus text format to path, for
// node_exporter's textfile collector. The parent directory is created.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
