// Package metrics records run counters on a private prometheus registry and
// writes them in the textfile exposition format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "refzone"

// Metrics holds the run collectors. Recording on a nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	documents *prometheus.CounterVec
	records   *prometheus.CounterVec
	lines     *prometheus.CounterVec
	search    *prometheus.HistogramVec
	zoneLen   prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by status.",
		}, []string{"status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records resolved, by outcome.",
		}, []string{"outcome"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_lines_total",
			Help:      "Reference zone lines, by whether they were linked to a record.",
		}, []string{"linked"}),
		search: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search latency, by backend.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"backend"}),
		zoneLen: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "zone_length_lines",
			Help:      "Length of located reference zones.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.registry.MustRegister(m.documents, m.records, m.lines, m.search, m.zoneLen)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Document counts one document with the given status.
func (m *Metrics) Document(status string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(status).Inc()
}

// Record counts one record outcome.
func (m *Metrics) Record(outcome string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(outcome).Inc()
}

// Zone observes a located zone and its linked line counts.
func (m *Metrics) Zone(length, linked int) {
	if m == nil {
		return
	}
	m.zoneLen.Observe(float64(length))
	m.lines.WithLabelValues("true").Add(float64(linked))
	m.lines.WithLabelValues("false").Add(float64(length - linked))
}

// Search observes one search call.
func (m *Metrics) Search(backend string, d time.Duration) {
	if m == nil {
		return
	}
	m.search.WithLabelValues(backend).Observe(d.Seconds())
}

// WriteFile writes all metrics to path in the textfile format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
