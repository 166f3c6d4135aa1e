package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callinsight/pkg/analytics"
	"callinsight/pkg/config"
)

type fakePublisher struct {
	mu        sync.Mutex
	connected bool
	published []*analytics.AnalysisReport
}

func (f *fakePublisher) PublishReport(report *analytics.AnalysisReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, report)
	return nil
}

func (f *fakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func newTestServer(t *testing.T, publisher ReportPublisher) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Port:          8080,
			MaxBodyBytes:  1 << 20,
			EnableMetrics: false,
		},
		Batch: config.BatchConfig{Workers: 2, MaxItems: 4},
	}

	engine, err := analytics.NewEngine(logger, nil)
	require.NoError(t, err)
	batch := analytics.NewBatchProcessor(logger, engine, cfg.Batch.Workers)

	return NewServer(logger, cfg, engine, batch, publisher)
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Server"), "callinsight")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, false, payload["amqp_connected"])
}

func TestAnalyzeTranscriptEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/analyze-transcript", AnalyzeRequest{
		Transcript: "Agent: Hello, how can I help?\nCustomer: I was charged twice, please fix this.\nAgent: I'm sorry, refunding now.\nCustomer: Thank you!",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ReportID)
	require.NotNil(t, resp.Report)
	assert.True(t, resp.Report.Success)
	assert.Equal(t, "billing_inquiry", resp.Report.Intent.PrimaryIntent)
	assert.Equal(t, analytics.OutcomeResolved, resp.Report.Quality.CallOutcome)
}

func TestAnalyzeTranscriptMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/analyze-transcript", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnalyzeTranscriptBadJSON(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-transcript", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeTranscriptTurnsTakePrecedence(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/analyze-transcript", AnalyzeRequest{
		Transcript: "Agent: one\nCustomer: two\nAgent: three",
		Turns: []analytics.Turn{
			{Speaker: analytics.SpeakerCustomer, Text: "I want a refund"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Report.ConversationMetrics.TotalTurns)
	assert.Equal(t, "refund_request", resp.Report.Intent.PrimaryIntent)
}

func TestBatchAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/batch-analyze", BatchRequest{
		Transcripts: []string{
			"Agent: Hello!\nCustomer: My bill is wrong.",
			"Customer: This is terrible and I am furious.",
			"",
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)
	for i, result := range resp.Results {
		assert.Equal(t, i, result.Index)
		assert.True(t, result.Success)
	}
	assert.Equal(t, 3, resp.Stats.TotalReports)
	assert.NotZero(t, resp.Stats.SentimentDistribution[analytics.PolarityNegative])
}

func TestBatchAnalyzeRejectsOversizedBatch(t *testing.T) {
	s := newTestServer(t, nil)

	transcripts := make([]string, 5)
	for i := range transcripts {
		transcripts[i] = "Agent: hello"
	}

	rec := doRequest(t, s, http.MethodPost, "/api/batch-analyze", BatchRequest{Transcripts: transcripts})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBatchAnalyzeRejectsEmptyBatch(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/batch-analyze", BatchRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpointAccumulates(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var before analytics.AggregateStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	assert.Zero(t, before.TotalReports)

	doRequest(t, s, http.MethodPost, "/api/analyze-transcript", AnalyzeRequest{
		Transcript: "Customer: my bill is wrong",
	})
	doRequest(t, s, http.MethodPost, "/api/analyze-transcript", AnalyzeRequest{
		Transcript: "Customer: the wifi is broken",
	})

	rec = doRequest(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var after analytics.AggregateStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, 2, after.TotalReports)
	assert.Equal(t, 1, after.IntentDistribution["billing_inquiry"])
	assert.Equal(t, 1, after.IntentDistribution["technical_support"])
}

func TestStatsMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost, "/api/stats", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestConnectedPublisherReceivesReports(t *testing.T) {
	publisher := &fakePublisher{connected: true}
	s := newTestServer(t, publisher)

	doRequest(t, s, http.MethodPost, "/api/analyze-transcript", AnalyzeRequest{
		Transcript: "Customer: hello there",
	})

	assert.Equal(t, 1, publisher.count())
}

func TestDisconnectedPublisherIsSkipped(t *testing.T) {
	publisher := &fakePublisher{connected: false}
	s := newTestServer(t, publisher)

	rec := doRequest(t, s, http.MethodPost, "/api/analyze-transcript", AnalyzeRequest{
		Transcript: "Customer: hello there",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, publisher.count())
}

func TestHealthReportsPublisherConnection(t *testing.T) {
	s := newTestServer(t, &fakePublisher{connected: true})

	rec := doRequest(t, s, http.MethodGet, "/health", nil)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["amqp_connected"])
}
