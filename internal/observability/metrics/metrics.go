// Package metrics holds the Prometheus collectors for the analysis service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docroute/internal/domain"
)

// Metrics owns a private registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	pagesTotal       *prometheus.CounterVec
	degradedPages    *prometheus.CounterVec
	segmentsPerDoc   *prometheus.HistogramVec
	routedTotal      *prometheus.CounterVec
	classifyTotal    *prometheus.CounterVec
}

// New creates the collectors under namespace and registers them.
func New(namespace, service string) *Metrics {
	if namespace == "" {
		namespace = "docroute"
	}
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "documents_total",
			Help:      "Total analysed documents by status.",
		},
		[]string{"service", "source", "status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Document analysis duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"service", "source"},
	)
	pagesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "pages_total",
			Help:      "Total profiled pages by platform hint.",
		},
		[]string{"service", "platform"},
	)
	degradedPages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "degraded_pages_total",
			Help:      "Total pages that fell back to a minimal profile.",
		},
		[]string{"service"},
	)
	segmentsPerDoc := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "segments_per_document",
			Help:      "Distribution of segments produced per document.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 60},
		},
		[]string{"service"},
	)
	routedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "routing",
			Name:      "segments_total",
			Help:      "Total routed segments by label, target and label source.",
		},
		[]string{"service", "label", "target", "label_source"},
	)
	classifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "results_total",
			Help:      "Total classifications by label and decision path.",
		},
		[]string{"service", "label", "path"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysesTotal,
		analysisDuration,
		pagesTotal,
		degradedPages,
		segmentsPerDoc,
		routedTotal,
		classifyTotal,
	)

	return &Metrics{
		registry:         registry,
		service:          service,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		analysesTotal:    analysesTotal,
		analysisDuration: analysisDuration,
		pagesTotal:       pagesTotal,
		degradedPages:    degradedPages,
		segmentsPerDoc:   segmentsPerDoc,
		routedTotal:      routedTotal,
		classifyTotal:    classifyTotal,
	}
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func (m *Metrics) RequestStarted() func() {
	m.requestInFlight.Inc()
	return m.requestInFlight.Dec
}

// ObserveRequest records one finished HTTP request. path should be the route template.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	m.requestTotal.WithLabelValues(m.service, method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(m.service, method, path).Observe(d.Seconds())
}

// RecordAnalysis records one analysis run from source ("pages", "pdf", "text").
func (m *Metrics) RecordAnalysis(source string, a *domain.Analysis, d time.Duration) {
	status := "ok"
	if a == nil || a.Failed() {
		status = "failed"
	} else if a.Truncated {
		status = "truncated"
	}
	m.analysesTotal.WithLabelValues(m.service, source, status).Inc()
	m.analysisDuration.WithLabelValues(m.service, source).Observe(d.Seconds())
	if a == nil || a.Failed() {
		return
	}
	for i := range a.Pages {
		m.pagesTotal.WithLabelValues(m.service, string(a.Pages[i].PlatformHint)).Inc()
	}
	if n := len(a.DegradedPages); n > 0 {
		m.degradedPages.WithLabelValues(m.service).Add(float64(n))
	}
	m.segmentsPerDoc.WithLabelValues(m.service).Observe(float64(len(a.Segments)))
}

// RecordClassification records one classifier result.
func (m *Metrics) RecordClassification(res domain.ClassificationResult) {
	path := "scored"
	switch {
	case res.Degraded:
		path = "degraded"
	case res.FastPath != "":
		path = "fast_path"
	}
	m.classifyTotal.WithLabelValues(m.service, string(res.Label), path).Inc()
}

// RecordRoute records one routing decision.
func (m *Metrics) RecordRoute(d domain.RouteDecision) {
	m.routedTotal.WithLabelValues(m.service, string(d.Label), string(d.Target), string(d.LabelSource)).Inc()
}
