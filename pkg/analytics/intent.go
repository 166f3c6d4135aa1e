package analytics

import (
	"regexp"
	"strings"
)

// IntentClassifier matches transcripts against a fixed category table.
// Patterns are compiled once at construction; the classifier is read-only
// afterwards and safe for concurrent use.
type IntentClassifier struct {
	categories []compiledCategory
	fallback   string
	smoothing  float64
}

type compiledCategory struct {
	name     string
	keywords []string
	patterns []*regexp.Regexp
}

// NewIntentClassifier compiles the configured category table. Slice order
// of cfg.IntentCategories is the tie-break priority order.
func NewIntentClassifier(cfg *Config) *IntentClassifier {
	categories := make([]compiledCategory, 0, len(cfg.IntentCategories))
	for _, cat := range cfg.IntentCategories {
		compiled := compiledCategory{
			name:     cat.Name,
			keywords: cat.Keywords,
			patterns: make([]*regexp.Regexp, 0, len(cat.Keywords)),
		}
		for _, kw := range cat.Keywords {
			compiled.patterns = append(compiled.patterns, keywordPattern(kw))
		}
		categories = append(categories, compiled)
	}

	return &IntentClassifier{
		categories: categories,
		fallback:   cfg.FallbackIntent,
		smoothing:  cfg.IntentSmoothing,
	}
}

// keywordPattern builds a case-insensitive word-boundary matcher for a
// keyword or phrase.
func keywordPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
}

// Classify scores the transcript against every category. The score of a
// category is the number of DISTINCT keywords matched, so repeating one
// phrase does not inflate it. The result always contains an entry for
// every configured category, zero-scored ones included.
func (ic *IntentClassifier) Classify(text string) IntentResult {
	lower := strings.ToLower(text)

	result := IntentResult{
		PrimaryIntent: ic.fallback,
		IntentScores:  make(map[string]IntentMatch, len(ic.categories)),
	}

	bestScore := 0
	for _, cat := range ic.categories {
		matched := make([]string, 0, 4)
		for i, pattern := range cat.patterns {
			if pattern.MatchString(lower) {
				matched = append(matched, cat.keywords[i])
			}
		}

		score := len(matched)
		match := IntentMatch{
			Category:        cat.name,
			Score:           score,
			Confidence:      roundTo(ic.confidence(score), 4),
			MatchedKeywords: matched,
		}
		result.IntentScores[cat.name] = match

		// Strictly greater keeps the earliest category on ties, which is
		// the configured priority order.
		if score > bestScore {
			bestScore = score
			result.PrimaryIntent = cat.name
			result.Confidence = match.Confidence
		}
	}

	return result
}

// confidence maps a raw distinct-match count into (0,1) with smoothing so
// low-evidence matches stay low.
func (ic *IntentClassifier) confidence(score int) float64 {
	if score == 0 {
		return 0
	}
	s := float64(score)
	return s / (s + ic.smoothing)
}
