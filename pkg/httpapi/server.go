package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"callinsight/pkg/analytics"
	"callinsight/pkg/config"
	"callinsight/pkg/metrics"
	"callinsight/pkg/version"
)

// ReportPublisher is the optional downstream delivery hook for completed
// reports (AMQP in production, nil or a fake in tests).
type ReportPublisher interface {
	PublishReport(report *analytics.AnalysisReport) error
	IsConnected() bool
}

// Server exposes the analytics engine over HTTP: single and batch
// analysis, aggregate statistics, health, metrics and a report stream.
type Server struct {
	logger     *logrus.Logger
	config     *config.Config
	engine     *analytics.Engine
	batch      *analytics.BatchProcessor
	publisher  ReportPublisher
	hub        *ReportHub
	httpServer *http.Server
	mux        *http.ServeMux
	startTime  time.Time

	tally reportTally
}

// NewServer wires the engine into the HTTP surface. publisher may be nil.
func NewServer(logger *logrus.Logger, cfg *config.Config, engine *analytics.Engine, batch *analytics.BatchProcessor, publisher ReportPublisher) *Server {
	s := &Server{
		logger:    logger,
		config:    cfg,
		engine:    engine,
		batch:     batch,
		publisher: publisher,
		hub:       NewReportHub(logger),
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/analyze-transcript", s.handleAnalyzeTranscript)
	mux.HandleFunc("/api/batch-analyze", s.handleBatchAnalyze)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/ws/reports", s.hub.HandleWebSocket)

	if cfg.HTTP.EnableMetrics {
		metrics.RegisterHandler(mux)
	}

	s.mux = mux
	return s
}

// Start runs the HTTP server and the WebSocket hub until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.HTTP.Port),
		Handler:      s.withCommonHeaders(s.mux),
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
	}

	s.logger.WithField("port", s.config.HTTP.Port).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler returns the root handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.withCommonHeaders(s.mux)
}

func (s *Server) withCommonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", version.ServerHeader())
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		if metrics.IsMetricsEnabled() && metrics.HTTPRequestsTotal != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(sw.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	amqpConnected := false
	if s.publisher != nil {
		amqpConnected = s.publisher.IsConnected()
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"version":        version.Version,
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
		"amqp_connected": amqpConnected,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// reportTally is the running cross-call aggregation served by /api/stats.
type reportTally struct {
	mu      sync.Mutex
	reports int
	// distributions
	sentiment map[analytics.Polarity]int
	intents   map[string]int
	outcomes  map[analytics.Outcome]int
	// sums for averages
	qualitySum float64
	riskSum    float64
}

func (t *reportTally) add(report *analytics.AnalysisReport) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sentiment == nil {
		t.sentiment = make(map[analytics.Polarity]int)
		t.intents = make(map[string]int)
		t.outcomes = make(map[analytics.Outcome]int)
	}

	t.reports++
	t.sentiment[report.Sentiment.Overall.Polarity]++
	t.intents[report.Intent.PrimaryIntent]++
	t.outcomes[report.Quality.CallOutcome]++
	t.qualitySum += report.Quality.QualityScore
	t.riskSum += report.Quality.EscalationRisk
}

func (t *reportTally) snapshot() analytics.AggregateStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := analytics.AggregateStats{
		TotalReports:          t.reports,
		SentimentDistribution: make(map[analytics.Polarity]int, len(t.sentiment)),
		IntentDistribution:    make(map[string]int, len(t.intents)),
		OutcomeDistribution:   make(map[analytics.Outcome]int, len(t.outcomes)),
	}
	for k, v := range t.sentiment {
		stats.SentimentDistribution[k] = v
	}
	for k, v := range t.intents {
		stats.IntentDistribution[k] = v
	}
	for k, v := range t.outcomes {
		stats.OutcomeDistribution[k] = v
	}
	if t.reports > 0 {
		stats.AverageQualityScore = t.qualitySum / float64(t.reports)
		stats.AverageEscalationRisk = t.riskSum / float64(t.reports)
	}
	return stats
}
