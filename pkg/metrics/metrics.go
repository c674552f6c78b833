// Package metrics defines the Prometheus metric collectors used across the
// platform and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the platform.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	DocsAnnotatedTotal   *prometheus.CounterVec
	AnnotationLatency    *prometheus.HistogramVec
	EmojiMatchedTotal    prometheus.Counter
	SpansMergedTotal     prometheus.Counter
	TokensPerDocument    prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	LookupEntriesLoaded  *prometheus.GaugeVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		DocsAnnotatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docs_annotated_total",
				Help: "Total documents annotated by source (http, kafka) and status.",
			},
			[]string{"source", "status"},
		),
		AnnotationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "annotation_latency_seconds",
				Help:    "Document annotation latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		EmojiMatchedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "emoji_matched_total",
				Help: "Total emoji occurrences matched across all documents.",
			},
		),
		SpansMergedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spans_merged_total",
				Help: "Total multi-token emoji spans merged into single tokens.",
			},
		),
		TokensPerDocument: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tokens_per_document",
				Help:    "Number of tokens per annotated document (post-merge).",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of annotation cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of annotation cache misses.",
			},
		),
		LookupEntriesLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lookup_entries_loaded",
				Help: "Number of override lookup entries loaded per pattern id.",
			},
			[]string{"pattern_id"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.DocsAnnotatedTotal,
		m.AnnotationLatency,
		m.EmojiMatchedTotal,
		m.SpansMergedTotal,
		m.TokensPerDocument,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.LookupEntriesLoaded,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
