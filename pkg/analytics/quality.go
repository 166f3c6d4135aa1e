package analytics

import (
	"strings"
)

// Escalation risk blends negative-indicator density with negative customer
// sentiment magnitude. The mix and cutoffs are a reconstruction of observed
// support-call behavior and are deliberately kept as tunable constants.
const (
	escalationDensityWeight   = 0.5
	escalationSentimentWeight = 0.7
	escalationDensityScale    = 10.0
)

// QualityScorer combines sentiment, intent, conversation shape and a
// politeness lexicon into the composite quality metrics.
type QualityScorer struct {
	cfg       *Config
	sentiment *SentimentAnalyzer
}

// NewQualityScorer creates a scorer bound to validated configuration.
func NewQualityScorer(cfg *Config, sentiment *SentimentAnalyzer) *QualityScorer {
	return &QualityScorer{cfg: cfg, sentiment: sentiment}
}

// Score produces the quality section. It consumes completed sentiment and
// intent results rather than recomputing them.
func (qs *QualityScorer) Score(turns []Turn, sentiment SentimentAnalysis, intent IntentResult) QualityMetrics {
	positive, negative := qs.countPolitenessMarkers(turns)

	// Laplace-smoothed ratio keeps the score defined with zero markers.
	politeness := float64(positive) / float64(positive+negative+1)

	outcome, outcomeConfidence := qs.predictOutcome(turns)

	risk := qs.escalationRisk(turns, negative, sentiment)

	quality := qs.cfg.Weights.Sentiment*normalizeCompound(sentiment.Overall.Scores.Compound) +
		qs.cfg.Weights.Intent*intent.Confidence +
		qs.cfg.Weights.Politeness*politeness +
		qs.cfg.Weights.Outcome*outcomeConfidence

	return QualityMetrics{
		QualityScore:       roundTo(clamp(quality, 0, 1), 2),
		PositiveIndicators: positive,
		NegativeIndicators: negative,
		CallOutcome:        outcome,
		OutcomeConfidence:  roundTo(outcomeConfidence, 4),
		EscalationRisk:     roundTo(risk, 4),
		PolitenessScore:    roundTo(politeness, 4),
	}
}

// countPolitenessMarkers scans agent turns for courtesy phrases versus
// dismissive cues. With no agent-attributed turns (degraded transcripts)
// the whole conversation is scanned instead.
func (qs *QualityScorer) countPolitenessMarkers(turns []Turn) (int, int) {
	text := strings.ToLower(speakerText(turns, SpeakerAgent))
	if text == "" {
		text = strings.ToLower(RenderTurns(turns))
	}

	positive := 0
	for _, marker := range qs.cfg.PositiveMarkers {
		positive += strings.Count(text, strings.ToLower(marker))
	}
	negative := 0
	for _, marker := range qs.cfg.NegativeMarkers {
		negative += strings.Count(text, strings.ToLower(marker))
	}
	return positive, negative
}

// predictOutcome applies the outcome rules in priority order:
//  1. final customer turn positive and resolution evidence above the
//     configured threshold -> resolved
//  2. final customer turn negative with no resolution evidence -> unresolved
//  3. otherwise -> in_progress with the fixed fallback confidence
func (qs *QualityScorer) predictOutcome(turns []Turn) (Outcome, float64) {
	final := finalTurn(turns, SpeakerCustomer)
	if final == nil {
		return OutcomeInProgress, qs.cfg.FallbackOutcomeConfidence
	}

	finalSentiment := qs.sentiment.Analyze(final.Text)

	lower := strings.ToLower(RenderTurns(turns))
	hits := 0
	for _, kw := range qs.cfg.ResolutionKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		}
	}
	resolutionConfidence := 0.0
	if hits > 0 {
		h := float64(hits)
		resolutionConfidence = h / (h + qs.cfg.IntentSmoothing)
	}

	switch {
	case finalSentiment.Polarity == PolarityPositive && resolutionConfidence >= qs.cfg.OutcomeResolutionThreshold:
		return OutcomeResolved, clamp(finalSentiment.Confidence+resolutionConfidence, 0, 1)
	case finalSentiment.Polarity == PolarityNegative && hits == 0:
		return OutcomeUnresolved, finalSentiment.Confidence
	default:
		return OutcomeInProgress, qs.cfg.FallbackOutcomeConfidence
	}
}

// escalationRisk estimates handoff likelihood from dismissive-marker and
// escalation-keyword density plus negative customer sentiment magnitude.
func (qs *QualityScorer) escalationRisk(turns []Turn, negativeMarkers int, sentiment SentimentAnalysis) float64 {
	lower := strings.ToLower(RenderTurns(turns))

	escalationHits := 0
	for _, kw := range qs.cfg.EscalationKeywords {
		escalationHits += strings.Count(lower, strings.ToLower(kw))
	}

	density := float64(negativeMarkers+2*escalationHits) / escalationDensityScale
	if density > 1 {
		density = 1
	}

	customer := sentiment.Customer
	if customer == nil {
		customer = &sentiment.Overall
	}
	negMagnitude := 0.0
	if customer.Scores.Compound < 0 {
		negMagnitude = -customer.Scores.Compound
	}

	return clamp(escalationDensityWeight*density+escalationSentimentWeight*negMagnitude, 0, 1)
}

// finalTurn returns the last turn for the given speaker, falling back to
// the last turn overall, or nil for an empty conversation.
func finalTurn(turns []Turn, speaker Speaker) *Turn {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Speaker == speaker {
			return &turns[i]
		}
	}
	if len(turns) > 0 {
		return &turns[len(turns)-1]
	}
	return nil
}

// normalizeCompound maps a [-1,1] compound score onto [0,1].
func normalizeCompound(compound float64) float64 {
	return clamp((compound+1)/2, 0, 1)
}
