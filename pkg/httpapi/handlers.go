package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"callinsight/pkg/analytics"
	"callinsight/pkg/metrics"
)

// AnalyzeRequest accepts either a raw transcript or pre-parsed turns. When
// both are present the turns win and the parser is bypassed.
type AnalyzeRequest struct {
	Transcript string           `json:"transcript"`
	Turns      []analytics.Turn `json:"turns,omitempty"`
}

// AnalyzeResponse wraps a report with its delivery identifier.
type AnalyzeResponse struct {
	ReportID string                    `json:"report_id"`
	Report   *analytics.AnalysisReport `json:"report"`
}

// BatchRequest carries multiple transcripts for batch analysis.
type BatchRequest struct {
	Items       []analytics.BatchItem `json:"items,omitempty"`
	Transcripts []string              `json:"transcripts,omitempty"`
}

// BatchResponse is the order-preserving batch result set plus aggregate
// statistics over the successful items.
type BatchResponse struct {
	Results []analytics.BatchResult  `json:"results"`
	Stats   analytics.AggregateStats `json:"stats"`
}

func (s *Server) handleAnalyzeTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	var report *analytics.AnalysisReport
	if len(req.Turns) > 0 {
		report = s.engine.AnalyzeTurns(req.Turns)
	} else {
		report = s.engine.Analyze(req.Transcript)
	}

	s.recordReport(report, time.Since(start))

	s.writeJSON(w, http.StatusOK, AnalyzeResponse{
		ReportID: uuid.NewString(),
		Report:   report,
	})
}

func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req BatchRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	items := req.Items
	for _, transcript := range req.Transcripts {
		items = append(items, analytics.BatchItem{Transcript: transcript})
	}
	if len(items) == 0 {
		s.writeError(w, http.StatusBadRequest, "no transcripts provided")
		return
	}
	if len(items) > s.config.Batch.MaxItems {
		s.writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("batch exceeds limit of %d items", s.config.Batch.MaxItems))
		return
	}

	if metrics.IsMetricsEnabled() && metrics.BatchesTotal != nil {
		metrics.BatchesTotal.Inc()
		metrics.BatchSize.Observe(float64(len(items)))
	}

	results := s.batch.Process(r.Context(), items)

	reports := make([]*analytics.AnalysisReport, 0, len(results))
	for _, result := range results {
		if result.Success && result.Report != nil {
			reports = append(reports, result.Report)
			s.recordReport(result.Report, 0)
		} else if metrics.IsMetricsEnabled() && metrics.BatchItemsFailed != nil {
			metrics.BatchItemsFailed.Inc()
		}
	}

	s.writeJSON(w, http.StatusOK, BatchResponse{
		Results: results,
		Stats:   analytics.Aggregate(reports),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.tally.snapshot())
}

// recordReport feeds a completed report into the running tally, metrics,
// the WebSocket stream and the AMQP publisher.
func (s *Server) recordReport(report *analytics.AnalysisReport, elapsed time.Duration) {
	s.tally.add(report)

	if metrics.IsMetricsEnabled() && metrics.AnalysesTotal != nil {
		metrics.AnalysesTotal.WithLabelValues(report.Intent.PrimaryIntent, string(report.Quality.CallOutcome)).Inc()
		metrics.QualityScores.Observe(report.Quality.QualityScore)
		if elapsed > 0 {
			metrics.AnalysisDuration.Observe(elapsed.Seconds())
		}
		if report.Degraded {
			metrics.DegradedAnalyses.Inc()
		}
	}

	s.hub.BroadcastReport(report)

	if s.publisher != nil && s.publisher.IsConnected() {
		if err := s.publisher.PublishReport(report); err != nil {
			s.logger.WithError(err).Warn("Failed to publish report to AMQP")
		}
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.HTTP.MaxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}
