package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestInitIsIdempotent(t *testing.T) {
	Init(testLogger())
	first := GetRegistry()
	require.NotNil(t, first)
	require.NotNil(t, AnalysesTotal)

	// A second Init must not re-register or replace anything.
	Init(testLogger())
	assert.Same(t, first, GetRegistry())
}

func TestEnableMetrics(t *testing.T) {
	EnableMetrics(false)
	assert.False(t, IsMetricsEnabled())

	EnableMetrics(true)
	assert.True(t, IsMetricsEnabled())
}

func TestMetricsEndpoint(t *testing.T) {
	Init(testLogger())
	EnableMetrics(true)

	AnalysesTotal.WithLabelValues("billing_inquiry", "resolved").Inc()
	QualityScores.Observe(0.73)

	mux := http.NewServeMux()
	RegisterHandler(mux)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "callinsight_analyses_total")
	assert.Contains(t, body, "callinsight_quality_score")
}
