package analytics

import (
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"callinsight/pkg/errors"
)

// Engine sequences the analysis pipeline: parse, then sentiment, intent and
// conversation metrics, then quality scoring and summarization. All
// configuration is injected once at construction; Analyze is a pure
// function of its input and is safe for concurrent use.
type Engine struct {
	logger *logrus.Entry
	cfg    *Config

	parser     *TranscriptParser
	sentiment  *SentimentAnalyzer
	intent     *IntentClassifier
	quality    *QualityScorer
	summarizer *Summarizer
	insights   *InsightGenerator
}

// NewEngine validates the configuration and builds the pipeline. A
// configuration error here is fatal; the engine refuses to initialize
// rather than produce undefined scores.
func NewEngine(logger *logrus.Logger, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigurationError(err, "invalid analytics configuration")
	}

	sentiment := NewSentimentAnalyzer(cfg)

	return &Engine{
		logger:     logger.WithField("component", "analytics_engine"),
		cfg:        cfg,
		parser:     NewTranscriptParser(cfg),
		sentiment:  sentiment,
		intent:     NewIntentClassifier(cfg),
		quality:    NewQualityScorer(cfg, sentiment),
		summarizer: NewSummarizer(cfg),
		insights:   NewInsightGenerator(cfg),
	}, nil
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// Analyze runs the full pipeline over a raw transcript. Malformed or empty
// input is policy-resolved into a degraded report; Analyze never fails.
func (e *Engine) Analyze(transcript string) *AnalysisReport {
	turns, degraded := e.parser.Parse(transcript)
	return e.analyze(transcript, turns, degraded)
}

// AnalyzeTurns runs the pipeline over an already-parsed turn sequence,
// bypassing the transcript parser.
func (e *Engine) AnalyzeTurns(turns []Turn) *AnalysisReport {
	normalized := make([]Turn, len(turns))
	for i, t := range turns {
		t.Index = i
		if t.Speaker == "" {
			t.Speaker = SpeakerUnknown
		}
		if t.WordCount == 0 {
			t.WordCount = len(strings.Fields(t.Text))
		}
		normalized[i] = t
	}
	degraded := len(normalized) == 0
	return e.analyze(RenderTurns(normalized), normalized, degraded)
}

func (e *Engine) analyze(transcript string, turns []Turn, degraded bool) *AnalysisReport {
	sentiment := SentimentAnalysis{
		Overall:  e.sentiment.AnalyzeTurns(turns),
		Agent:    e.sentiment.AnalyzeSpeaker(turns, SpeakerAgent),
		Customer: e.sentiment.AnalyzeSpeaker(turns, SpeakerCustomer),
	}
	sentiment.ActionableInsights = e.insights.Generate(transcript, turns, sentiment.Overall)

	intent := e.intent.Classify(transcript)
	convMetrics := ComputeConversationMetrics(turns, e.cfg.WordsPerMinute)
	quality := e.quality.Score(turns, sentiment, intent)
	summary := e.summarizer.Summarize(turns, sentiment, intent, quality)

	e.logger.WithFields(logrus.Fields{
		"turns":          convMetrics.TotalTurns,
		"primary_intent": intent.PrimaryIntent,
		"call_outcome":   quality.CallOutcome,
		"quality_score":  quality.QualityScore,
		"degraded":       degraded,
	}).Debug("Transcript analysis complete")

	return &AnalysisReport{
		Success:             true,
		Degraded:            degraded,
		Transcript:          transcript,
		Turns:               turns,
		Sentiment:           sentiment,
		Intent:              intent,
		ConversationMetrics: convMetrics,
		Quality:             quality,
		Summary:             summary,
		TranscriptStats: TranscriptStats{
			CharacterCount:   utf8.RuneCountInString(transcript),
			WordCount:        len(strings.Fields(transcript)),
			ReadabilityScore: fleschReadingEase(transcript),
		},
	}
}
