// Package metrics provides Prometheus metrics for the devmatch recommendation service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recommendation requests
	recommendations       *prometheus.CounterVec
	recommendationLatency prometheus.Histogram
	recommendationSize    prometheus.Histogram
	candidatesEvaluated   prometheus.Counter

	// Scoring pipeline
	scorerInvocations *prometheus.CounterVec
	modelLatency      *prometheus.HistogramVec
	candidateFailures prometheus.Counter

	// Worker pool
	poolActiveWorkers prometheus.Gauge
	poolQueueDepth    prometheus.Gauge

	// Repository
	repositoryQueryLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

var runtimeOnce sync.Once //nolint:gochecknoglobals // guards RegisterRuntimeCollectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "devmatch",
		subsystem:        "recommender",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "Recommendation requests by outcome (ok, empty, not_found, error)",
	}, []string{"outcome"})

	m.recommendationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "request_latency_milliseconds",
		Help:      "End-to-end latency of a recommendation request in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.recommendationSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "result_size",
		Help:      "Number of recommendations returned per request",
		Buckets:   []float64{0, 1, 2, 3, 4, 5},
	})

	m.candidatesEvaluated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_evaluated_total",
		Help:      "Total number of candidates scored",
	})

	m.scorerInvocations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scorer_invocations_total",
		Help:      "Scores produced by source (zero_match, weak_match, model, fallback)",
	}, []string{"source"})

	m.modelLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_latency_milliseconds",
		Help:      "External model call latency in milliseconds by outcome",
		Buckets:   m.histogramBuckets,
	}, []string{"outcome"})

	m.candidateFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidate_failures_total",
		Help:      "Candidates degraded to a zero score after a processing failure",
	})

	m.poolActiveWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_active_workers",
		Help:      "Workers currently scoring a candidate",
	})

	m.poolQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_queue_depth",
		Help:      "Candidates waiting for a free worker",
	})

	m.repositoryQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Repository query latency in milliseconds by operation",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})
}

// RecordRecommendation counts a finished recommendation request.
func RecordRecommendation(outcome string, latencyMs float64, size int) {
	globalManager.recommendations.WithLabelValues(outcome).Inc()
	globalManager.recommendationLatency.Observe(latencyMs)
	globalManager.recommendationSize.Observe(float64(size))
}

// RecordCandidatesEvaluated adds n to the evaluated-candidates counter.
func RecordCandidatesEvaluated(n int) {
	globalManager.candidatesEvaluated.Add(float64(n))
}

// RecordScore counts a raw score by the source that produced it.
func RecordScore(source string) {
	globalManager.scorerInvocations.WithLabelValues(source).Inc()
}

// RecordModelLatency observes one external model call.
func RecordModelLatency(outcome string, latencyMs float64) {
	globalManager.modelLatency.WithLabelValues(outcome).Observe(latencyMs)
}

// RecordCandidateFailure counts a candidate degraded to zero.
func RecordCandidateFailure() {
	globalManager.candidateFailures.Inc()
}

// AddPoolActiveWorkers moves the active worker gauge by delta.
func AddPoolActiveWorkers(delta int) {
	globalManager.poolActiveWorkers.Add(float64(delta))
}

// UpdatePoolQueueDepth sets the number of candidates waiting for a worker.
func UpdatePoolQueueDepth(depth int) {
	globalManager.poolQueueDepth.Set(float64(depth))
}

// RecordRepositoryQuery observes a repository query.
func RecordRepositoryQuery(operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RegisterRuntimeCollectors adds the Go runtime and process collectors to the
// custom registry. Safe to call more than once.
func RegisterRuntimeCollectors() {
	runtimeOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
