package analytics

// Speaker identifies which side of the conversation produced a turn.
type Speaker string

const (
	SpeakerAgent    Speaker = "agent"
	SpeakerCustomer Speaker = "customer"
	SpeakerUnknown  Speaker = "unknown"
)

// Turn is one contiguous utterance attributed to a single speaker.
// Turns are immutable once produced; slice order is transcript order.
type Turn struct {
	Index     int     `json:"index"`
	Speaker   Speaker `json:"speaker"`
	Text      string  `json:"text"`
	WordCount int     `json:"word_count"`
}

// Polarity is the discrete sentiment classification derived from the
// compound score via the configured threshold.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// SentimentScore holds the raw lexicon-based sentiment proportions and the
// normalized compound score. Neg, Neu and Pos sum to 1.
type SentimentScore struct {
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// SentimentResult is the classified sentiment for a body of text.
type SentimentResult struct {
	Polarity   Polarity       `json:"polarity"`
	Confidence float64        `json:"confidence"`
	Scores     SentimentScore `json:"scores"`
}

// SentimentAnalysis is the sentiment section of the report. Agent and
// Customer are nil when the transcript contains no turns for that speaker.
// ActionableInsights is empty when no insight rule fired.
type SentimentAnalysis struct {
	Overall            SentimentResult  `json:"overall_sentiment"`
	Agent              *SentimentResult `json:"agent_sentiment"`
	Customer           *SentimentResult `json:"customer_sentiment"`
	ActionableInsights []Insight        `json:"actionable_insights"`
}

// IntentMatch is the evidence collected for a single intent category.
type IntentMatch struct {
	Category        string   `json:"category"`
	Score           int      `json:"score"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// IntentResult is the intent section of the report. IntentScores contains
// every configured category, including those with a zero score.
type IntentResult struct {
	PrimaryIntent string                 `json:"primary_intent"`
	IntentScores  map[string]IntentMatch `json:"intent_scores"`
	Confidence    float64                `json:"confidence"`
}

// ConversationMetrics captures turn-taking and volume statistics.
// EstimatedDurationMinutes is derived from word counts at an assumed
// speaking rate, never from audio timing.
type ConversationMetrics struct {
	TotalTurns               int     `json:"total_turns"`
	AgentTurns               int     `json:"agent_turns"`
	CustomerTurns            int     `json:"customer_turns"`
	TurnRatio                float64 `json:"turn_ratio"`
	TotalWords               int     `json:"total_words"`
	AgentWordCount           int     `json:"agent_word_count"`
	CustomerWordCount        int     `json:"customer_word_count"`
	AverageWordsPerTurn      float64 `json:"average_words_per_turn"`
	EstimatedDurationMinutes float64 `json:"estimated_duration_minutes"`
	DurationIsEstimate       bool    `json:"duration_is_estimate"`
}

// Outcome is the predicted disposition of the call.
type Outcome string

const (
	OutcomeResolved   Outcome = "resolved"
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeInProgress Outcome = "in_progress"
)

// QualityMetrics is the quality section of the report. QualityScore is the
// headline composite combining sentiment, intent confidence, politeness and
// outcome confidence under the configured weights.
type QualityMetrics struct {
	QualityScore       float64 `json:"quality_score"`
	PositiveIndicators int     `json:"positive_indicators"`
	NegativeIndicators int     `json:"negative_indicators"`
	CallOutcome        Outcome `json:"call_outcome"`
	OutcomeConfidence  float64 `json:"outcome_confidence"`
	EscalationRisk     float64 `json:"escalation_risk"`
	PolitenessScore    float64 `json:"politeness_score"`
}

// Summary is the narrative section of the report.
type Summary struct {
	SummaryPoints    []string `json:"summary_points"`
	KeyPhrases       []string `json:"key_phrases"`
	PrimaryTopic     string   `json:"primary_topic"`
	ConversationTone Polarity `json:"conversation_tone"`
	BriefSummary     string   `json:"brief_summary"`
}

// TranscriptStats holds raw size information about the analyzed text.
// ReadabilityScore is the Flesch reading ease of the transcript, zero when
// the transcript is empty.
type TranscriptStats struct {
	CharacterCount   int     `json:"character_count"`
	WordCount        int     `json:"word_count"`
	ReadabilityScore float64 `json:"readability_score"`
}

// AnalysisReport is the complete analytics output for one transcript.
// It is a pure function of the transcript and the engine configuration;
// analyzing the same transcript twice yields an identical report.
type AnalysisReport struct {
	Success             bool                `json:"success"`
	Degraded            bool                `json:"degraded"`
	Transcript          string              `json:"transcript"`
	Turns               []Turn              `json:"turns"`
	Sentiment           SentimentAnalysis   `json:"sentiment_analysis"`
	Intent              IntentResult        `json:"intent_analysis"`
	ConversationMetrics ConversationMetrics `json:"conversation_metrics"`
	Quality             QualityMetrics      `json:"quality_metrics"`
	Summary             Summary             `json:"summary"`
	TranscriptStats     TranscriptStats     `json:"transcript_stats"`
}
