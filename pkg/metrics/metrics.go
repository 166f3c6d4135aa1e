package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	registry           *prometheus.Registry
	registryOnce       sync.Once
	defaultMetricsPath = "/metrics"
	metricsEnabled     = true

	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	DegradedAnalyses prometheus.Counter
	QualityScores    prometheus.Histogram

	// Batch metrics
	BatchesTotal     prometheus.Counter
	BatchSize        prometheus.Histogram
	BatchItemsFailed prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// AMQP metrics
	AMQPPublishedMessages *prometheus.CounterVec
	AMQPConnectionErrors  *prometheus.CounterVec
	AMQPConnectionStatus  prometheus.Gauge

	// WebSocket metrics
	WSClientsConnected prometheus.Gauge
)

// Init initializes all metrics and registers them with Prometheus
func Init(logger *logrus.Logger) {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		AnalysesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callinsight_analyses_total",
				Help: "Total number of transcript analyses by primary intent and outcome",
			},
			[]string{"primary_intent", "call_outcome"},
		)

		AnalysisDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "callinsight_analysis_duration_seconds",
				Help:    "Time taken to analyze one transcript",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		)

		DegradedAnalyses = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "callinsight_degraded_analyses_total",
				Help: "Total number of analyses that ran in degraded mode",
			},
		)

		QualityScores = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "callinsight_quality_score",
				Help:    "Distribution of composite quality scores",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		)

		BatchesTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "callinsight_batches_total",
				Help: "Total number of batch analysis requests",
			},
		)

		BatchSize = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "callinsight_batch_size",
				Help:    "Number of transcripts per batch request",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		)

		BatchItemsFailed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "callinsight_batch_items_failed_total",
				Help: "Total number of batch items that failed in isolation",
			},
		)

		HTTPRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callinsight_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		)

		HTTPRequestDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "callinsight_http_request_duration_seconds",
				Help:    "HTTP request handling time",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"path", "method"},
		)

		AMQPPublishedMessages = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callinsight_amqp_published_messages_total",
				Help: "Total number of reports published to AMQP",
			},
			[]string{"queue", "status"},
		)

		AMQPConnectionErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callinsight_amqp_connection_errors_total",
				Help: "Total number of AMQP connection errors",
			},
			[]string{"error_type"},
		)

		AMQPConnectionStatus = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "callinsight_amqp_connection_status",
				Help: "AMQP connection status (1 connected, 0 disconnected)",
			},
		)

		WSClientsConnected = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "callinsight_ws_clients_connected",
				Help: "Number of connected report stream WebSocket clients",
			},
		)

		registry.MustRegister(
			AnalysesTotal,
			AnalysisDuration,
			DegradedAnalyses,
			QualityScores,
			BatchesTotal,
			BatchSize,
			BatchItemsFailed,
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AMQPPublishedMessages,
			AMQPConnectionErrors,
			AMQPConnectionStatus,
			WSClientsConnected,
		)

		logger.Info("Prometheus metrics initialized")
	})
}

// GetRegistry returns the prometheus registry
func GetRegistry() *prometheus.Registry {
	return registry
}

// EnableMetrics enables or disables metrics collection
func EnableMetrics(enabled bool) {
	metricsEnabled = enabled
}

// IsMetricsEnabled returns whether metrics are enabled
func IsMetricsEnabled() bool {
	return metricsEnabled
}

// RegisterHandler registers the metrics HTTP handler
func RegisterHandler(mux *http.ServeMux) {
	if metricsEnabled && registry != nil {
		handler := promhttp.HandlerFor(
			registry,
			promhttp.HandlerOpts{
				EnableOpenMetrics: true,
				Registry:          registry,
			},
		)
		mux.Handle(defaultMetricsPath, handler)
	}
}
