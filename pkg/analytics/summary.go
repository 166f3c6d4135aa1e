package analytics

import (
	"sort"
	"strings"
)

// Summarizer produces the narrative section of the report from completed
// sentiment, intent and quality results plus extracted key phrases.
type Summarizer struct {
	cfg *Config
}

// NewSummarizer creates a summarizer bound to validated configuration.
func NewSummarizer(cfg *Config) *Summarizer {
	return &Summarizer{cfg: cfg}
}

// Summarize builds summary points from a small template set keyed by
// primary intent, conversation tone and call outcome. No free-text
// generation is involved, so output is fully deterministic.
func (s *Summarizer) Summarize(turns []Turn, sentiment SentimentAnalysis, intent IntentResult, quality QualityMetrics) Summary {
	tone := sentiment.Overall.Polarity
	topic := s.cfg.categoryLabel(intent.PrimaryIntent)

	points := []string{
		s.intentPoint(intent.PrimaryIntent, topic),
		tonePoint(tone),
		outcomePoint(quality.CallOutcome),
	}
	if quality.EscalationRisk > 0.5 {
		points = append(points, "Elevated escalation risk detected; supervisor review recommended")
	}

	return Summary{
		SummaryPoints:    points,
		KeyPhrases:       s.extractKeyPhrases(turns),
		PrimaryTopic:     topic,
		ConversationTone: tone,
		BriefSummary:     strings.Join(points, ". ") + ".",
	}
}

func (s *Summarizer) intentPoint(intentName, topic string) string {
	for _, cat := range s.cfg.IntentCategories {
		if cat.Name == intentName && cat.SummaryPoint != "" {
			return cat.SummaryPoint
		}
	}
	return "Customer inquiry categorized as: " + topic
}

func tonePoint(tone Polarity) string {
	switch tone {
	case PolarityPositive:
		return "Overall conversation tone was positive"
	case PolarityNegative:
		return "Overall conversation tone was negative"
	default:
		return "Conversation maintained a neutral tone"
	}
}

func outcomePoint(outcome Outcome) string {
	switch outcome {
	case OutcomeResolved:
		return "The issue was resolved during the call"
	case OutcomeUnresolved:
		return "The issue remained unresolved at the end of the call"
	default:
		return "Resolution is still in progress and may require follow-up"
	}
}

// extractKeyPhrases ranks bigram and trigram candidates by frequency with
// stop-word filtering, keeping the configured top N. Ties rank by first
// appearance in the transcript so the output is deterministic.
func (s *Summarizer) extractKeyPhrases(turns []Turn) []string {
	type candidate struct {
		phrase string
		count  int
		first  int
	}

	counts := make(map[string]*candidate)
	position := 0

	for _, turn := range turns {
		words := contentWords(turn.Text)
		for n := 2; n <= 3; n++ {
			for i := 0; i+n <= len(words); i++ {
				phrase := strings.Join(words[i:i+n], " ")
				if c, ok := counts[phrase]; ok {
					c.count++
				} else {
					counts[phrase] = &candidate{phrase: phrase, count: 1, first: position}
				}
				position++
			}
		}
	}

	ranked := make([]*candidate, 0, len(counts))
	for _, c := range counts {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	phrases := make([]string, 0, s.cfg.KeyPhraseLimit)
	for _, c := range ranked {
		if len(phrases) >= s.cfg.KeyPhraseLimit {
			break
		}
		if containedInAny(c.phrase, phrases) {
			continue
		}
		phrases = append(phrases, c.phrase)
	}
	return phrases
}

// contentWords lowercases and strips punctuation, dropping stop words and
// very short tokens so n-grams carry topical content.
func contentWords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?;:\"'()[]{}<>*-")
		if len(w) < 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

// containedInAny reports whether the phrase is a sub-phrase of an already
// selected one, which would make it redundant in the output.
func containedInAny(phrase string, selected []string) bool {
	for _, s := range selected {
		if strings.Contains(s, phrase) || strings.Contains(phrase, s) {
			return true
		}
	}
	return false
}
