package analytics

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(newTestLogger(), nil)
	require.NoError(t, err)
	return engine
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Sentiment = 0.9

	_, err := NewEngine(newTestLogger(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestEngineDefaultsNilConfig(t *testing.T) {
	engine, err := NewEngine(newTestLogger(), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().WordsPerMinute, engine.Config().WordsPerMinute)
}

func TestAnalyzeBillingCall(t *testing.T) {
	engine := newTestEngine(t)

	transcript := "Agent: Hello, how can I help?\n" +
		"Customer: I was charged twice, please fix this.\n" +
		"Agent: I'm sorry, refunding now.\n" +
		"Customer: Thank you!"

	report := engine.Analyze(transcript)

	require.NotNil(t, report)
	assert.True(t, report.Success)
	assert.False(t, report.Degraded)

	assert.Equal(t, "billing_inquiry", report.Intent.PrimaryIntent)
	assert.Equal(t, PolarityPositive, report.Sentiment.Overall.Polarity)
	assert.Equal(t, OutcomeResolved, report.Quality.CallOutcome)
	assert.Greater(t, report.Quality.QualityScore, 0.7)

	assert.Equal(t, 4, report.ConversationMetrics.TotalTurns)
	assert.Equal(t, 2, report.ConversationMetrics.AgentTurns)
	assert.Equal(t, 2, report.ConversationMetrics.CustomerTurns)

	require.NotNil(t, report.Sentiment.Agent)
	require.NotNil(t, report.Sentiment.Customer)
}

func TestAnalyzeEmptyTranscript(t *testing.T) {
	engine := newTestEngine(t)

	report := engine.Analyze("")

	require.NotNil(t, report)
	assert.True(t, report.Success)
	assert.True(t, report.Degraded)
	assert.Empty(t, report.Turns)
	assert.Zero(t, report.ConversationMetrics.TotalTurns)

	assert.Equal(t, engine.Config().FallbackIntent, report.Intent.PrimaryIntent)
	assert.Equal(t, OutcomeInProgress, report.Quality.CallOutcome)
	assert.Nil(t, report.Sentiment.Agent)
	assert.Nil(t, report.Sentiment.Customer)

	// The whole report must survive serialization: NaN or Inf anywhere
	// would make Marshal fail.
	_, err := json.Marshal(report)
	require.NoError(t, err)
}

func TestAnalyzeUnlabeledTranscriptIsDegraded(t *testing.T) {
	engine := newTestEngine(t)

	report := engine.Analyze("my internet has been down all week and nobody called me back")

	assert.True(t, report.Degraded)
	require.Len(t, report.Turns, 1)
	assert.Equal(t, SpeakerUnknown, report.Turns[0].Speaker)
	// Degraded input still produces a full report.
	assert.NotEmpty(t, report.Summary.SummaryPoints)
	assert.NotZero(t, report.TranscriptStats.WordCount)
}

func TestAnalyzeDeterminism(t *testing.T) {
	engine := newTestEngine(t)

	transcript := "Agent: Thanks for calling, what can I do for you?\n" +
		"Customer: My router is broken and the wifi is very slow.\n" +
		"Agent: I can schedule a technician, does tomorrow work?\n" +
		"Customer: Yes, thank you, that works great."

	first := engine.Analyze(transcript)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again := engine.Analyze(transcript)
		assert.Equal(t, first, again)

		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, firstJSON, againJSON)
	}
}

func TestAnalyzeTurnsNormalizesInput(t *testing.T) {
	engine := newTestEngine(t)

	turns := []Turn{
		{Index: 7, Speaker: SpeakerCustomer, Text: "I want my money back and a refund please"},
		{Index: 3, Text: "let me check"},
	}

	report := engine.AnalyzeTurns(turns)

	require.Len(t, report.Turns, 2)
	assert.Equal(t, 0, report.Turns[0].Index)
	assert.Equal(t, 1, report.Turns[1].Index)
	assert.Equal(t, SpeakerUnknown, report.Turns[1].Speaker)
	assert.Equal(t, 9, report.Turns[0].WordCount)
	assert.False(t, report.Degraded)

	assert.Equal(t, "refund_request", report.Intent.PrimaryIntent)
}

func TestAnalyzeTurnsEmpty(t *testing.T) {
	engine := newTestEngine(t)

	report := engine.AnalyzeTurns(nil)

	assert.True(t, report.Degraded)
	assert.NotNil(t, report.Turns)
	assert.Empty(t, report.Turns)
}

func TestAnalyzeTranscriptStats(t *testing.T) {
	engine := newTestEngine(t)

	transcript := "Agent: Hello café customer"
	report := engine.Analyze(transcript)

	assert.Equal(t, len(strings.Fields(transcript)), report.TranscriptStats.WordCount)
	// Rune count, not byte count.
	assert.Equal(t, 26, report.TranscriptStats.CharacterCount)
	assert.NotZero(t, report.TranscriptStats.ReadabilityScore)

	empty := engine.Analyze("")
	assert.Zero(t, empty.TranscriptStats.ReadabilityScore)
}

func TestAnalyzeIntentScoresIncludeAllCategories(t *testing.T) {
	engine := newTestEngine(t)

	report := engine.Analyze("Customer: hi there")

	assert.Len(t, report.Intent.IntentScores, len(engine.Config().IntentCategories))
}
