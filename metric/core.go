// Package metric provides Prometheus-based metrics for the knowledge-graph
// engine: rebuild outcomes and timings, per-context triple gauges, and query
// and search counters, plus an HTTP server exposing them.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all engine-level metrics.
type Metrics struct {
	// Rebuild metrics
	RebuildsTotal     *prometheus.CounterVec
	RebuildDuration   prometheus.Histogram
	SourcesFailed     prometheus.Counter
	GraphGeneration   prometheus.Gauge
	ContextTriples    *prometheus.GaugeVec
	GraphTriplesTotal prometheus.Gauge

	// Query metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration prometheus.Histogram

	// Search metrics
	SearchesTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all engine metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RebuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontos",
				Subsystem: "rebuild",
				Name:      "total",
				Help:      "Total number of graph rebuilds",
			},
			[]string{"status"},
		),

		RebuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ontos",
				Subsystem: "rebuild",
				Name:      "duration_seconds",
				Help:      "Graph rebuild duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		SourcesFailed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ontos",
				Subsystem: "rebuild",
				Name:      "sources_failed_total",
				Help:      "Total number of source items skipped due to parse failures",
			},
		),

		GraphGeneration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ontos",
				Subsystem: "graph",
				Name:      "generation",
				Help:      "Generation number of the currently published graph",
			},
		),

		ContextTriples: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "ontos",
				Subsystem: "graph",
				Name:      "context_triples",
				Help:      "Triple count per context in the published graph",
			},
			[]string{"context"},
		),

		GraphTriplesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ontos",
				Subsystem: "graph",
				Name:      "triples_total",
				Help:      "Total triple count of the published graph",
			},
		),

		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontos",
				Subsystem: "query",
				Name:      "total",
				Help:      "Total number of queries by outcome",
			},
			[]string{"outcome"},
		),

		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "ontos",
				Subsystem: "query",
				Name:      "duration_seconds",
				Help:      "Query execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ontos",
				Subsystem: "search",
				Name:      "total",
				Help:      "Total number of searches by kind",
			},
			[]string{"kind"},
		),
	}
}

// Query outcome label values.
const (
	QueryOutcomeOK         = "ok"
	QueryOutcomeValidation = "validation_error"
	QueryOutcomeTimeout    = "timeout"
	QueryOutcomeExecution  = "execution_error"
	QueryOutcomeRateLimit  = "rate_limited"
)

// RecordRebuild records one rebuild pass.
func (m *Metrics) RecordRebuild(generation uint64, failedSources int, duration time.Duration) {
	status := "ok"
	if failedSources > 0 {
		status = "partial"
	}
	m.RebuildsTotal.WithLabelValues(status).Inc()
	m.RebuildDuration.Observe(duration.Seconds())
	m.SourcesFailed.Add(float64(failedSources))
	m.GraphGeneration.Set(float64(generation))
}

// RecordGraphShape updates the published-graph gauges. Contexts removed by
// a rebuild are reset so stale series do not linger.
func (m *Metrics) RecordGraphShape(contextTriples map[string]int, total int) {
	m.ContextTriples.Reset()
	for key, count := range contextTriples {
		m.ContextTriples.WithLabelValues(key).Set(float64(count))
	}
	m.GraphTriplesTotal.Set(float64(total))
}

// RecordQuery records one query by outcome.
func (m *Metrics) RecordQuery(outcome string, duration time.Duration) {
	m.QueriesTotal.WithLabelValues(outcome).Inc()
	m.QueryDuration.Observe(duration.Seconds())
}

// RecordSearch records one search by kind ("prefix" or "concept").
func (m *Metrics) RecordSearch(kind string) {
	m.SearchesTotal.WithLabelValues(kind).Inc()
}
