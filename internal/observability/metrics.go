package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts E-utilities traffic and classification output for one
// CLI run. It uses its own registry so runs and tests never collide on
// the global one.
type Metrics struct {
	Registry *prometheus.Registry

	// RequestsTotal counts requests by endpoint and status code ("0" when
	// no response arrived).
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes request latency by endpoint.
	RequestDuration *prometheus.HistogramVec

	// PapersFetched counts records returned by esummary.
	PapersFetched prometheus.Counter

	// NonAcademicAuthors counts authors classified as non-academic.
	NonAcademicAuthors prometheus.Counter
}

// NewMetrics creates a Metrics instance on a fresh registry. namespace
// prefixes every metric name.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ncbi_requests_total",
			Help:      "Total number of E-utilities requests",
		}, []string{"endpoint", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ncbi_request_duration_seconds",
			Help:      "Duration of E-utilities requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		PapersFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_fetched_total",
			Help:      "Total number of paper records fetched",
		}),
		NonAcademicAuthors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "non_academic_authors_total",
			Help:      "Total number of authors classified as non-academic",
		}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.PapersFetched, m.NonAcademicAuthors)
	return m
}

// RecordRequest implements ncbi.Recorder.
func (m *Metrics) RecordRequest(endpoint string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordPapers adds n fetched records.
func (m *Metrics) RecordPapers(n int) {
	m.PapersFetched.Add(float64(n))
}

// RecordNonAcademic adds n non-academic authors.
func (m *Metrics) RecordNonAcademic(n int) {
	m.NonAcademicAuthors.Add(float64(n))
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
