package analytics

import (
	"math"
	"strings"
)

const (
	// Normalization constant for the compound score, x/sqrt(x^2+alpha).
	compoundAlpha = 15.0

	// Valence dampening applied when a negator flips a sentiment word.
	negationFactor = -0.74

	// Emphasis added per exclamation mark, capped at four marks.
	exclamationBoost  = 0.292
	maxExclamations   = 4
	capsEmphasisScale = 1.25

	// Look-back window for negators and intensifiers.
	modifierWindow = 3

	// Confidence reported when the text produced no lexicon hits.
	noEvidenceConfidence = 0.1
)

// SentimentAnalyzer computes lexicon-based sentiment with heuristic
// modifiers for negation, intensity and written emphasis. It holds only
// read-only tables and is safe for concurrent use.
type SentimentAnalyzer struct {
	threshold float64
}

// NewSentimentAnalyzer creates an analyzer with the configured polarity
// threshold.
func NewSentimentAnalyzer(cfg *Config) *SentimentAnalyzer {
	return &SentimentAnalyzer{threshold: cfg.PolarityThreshold}
}

// Analyze scores a body of text. Empty text or text with no lexicon hits
// yields a neutral result with low confidence rather than an error.
func (sa *SentimentAnalyzer) Analyze(text string) SentimentResult {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return SentimentResult{
			Polarity: PolarityNeutral,
			Scores:   SentimentScore{Neu: 1},
		}
	}

	sum := 0.0
	posSum := 0.0
	negSum := 0.0
	neutral := 0

	for i, tok := range tokens {
		valence, ok := valenceLexicon[tok.lower]
		if !ok {
			if _, isModifier := intensifierLexicon[tok.lower]; !isModifier {
				if _, isNegator := negatorLexicon[tok.lower]; !isNegator {
					neutral++
				}
			}
			continue
		}

		if tok.emphatic {
			valence *= capsEmphasisScale
		}
		valence = applyModifiers(tokens, i, valence)

		sum += valence
		if valence > 0 {
			posSum += valence
		} else {
			negSum += -valence
		}
	}

	if posSum == 0 && negSum == 0 {
		return SentimentResult{
			Polarity:   PolarityNeutral,
			Confidence: noEvidenceConfidence,
			Scores:     SentimentScore{Neu: 1},
		}
	}

	// Written emphasis: exclamation marks amplify whichever direction the
	// text already leans.
	bangs := strings.Count(text, "!")
	if bangs > maxExclamations {
		bangs = maxExclamations
	}
	if bangs > 0 && sum != 0 {
		boost := float64(bangs) * exclamationBoost
		if sum < 0 {
			boost = -boost
		}
		sum += boost
	}

	// Round before classifying so the polarity always agrees with the
	// compound value a consumer reads off the result.
	compound := sum / math.Sqrt(sum*sum+compoundAlpha)
	compound = roundTo(clamp(compound, -1, 1), 4)

	total := posSum + negSum + float64(neutral)
	scores := SentimentScore{
		Pos:      roundTo(posSum/total, 4),
		Neg:      roundTo(negSum/total, 4),
		Compound: compound,
	}
	scores.Neu = roundTo(1-scores.Pos-scores.Neg, 4)

	return SentimentResult{
		Polarity:   sa.polarity(compound),
		Confidence: math.Abs(compound),
		Scores:     scores,
	}
}

// AnalyzeTurns scores the concatenation of all turn text. Aggregating over
// the joined text rather than averaging per-turn compounds keeps strong
// isolated statements from being diluted.
func (sa *SentimentAnalyzer) AnalyzeTurns(turns []Turn) SentimentResult {
	var parts []string
	for _, turn := range turns {
		parts = append(parts, turn.Text)
	}
	return sa.Analyze(strings.Join(parts, " "))
}

// AnalyzeSpeaker scores only the turns attributed to one speaker. Returns
// nil when the speaker has no turns.
func (sa *SentimentAnalyzer) AnalyzeSpeaker(turns []Turn, speaker Speaker) *SentimentResult {
	text := speakerText(turns, speaker)
	if text == "" {
		return nil
	}
	result := sa.Analyze(text)
	return &result
}

func (sa *SentimentAnalyzer) polarity(compound float64) Polarity {
	switch {
	case compound >= sa.threshold:
		return PolarityPositive
	case compound <= -sa.threshold:
		return PolarityNegative
	default:
		return PolarityNeutral
	}
}

// applyModifiers adjusts a valence for negators and intensifiers within the
// preceding window. Negation flips sign and dampens magnitude; intensifiers
// scale it with decay by distance.
func applyModifiers(tokens []token, index int, valence float64) float64 {
	start := index - modifierWindow
	if start < 0 {
		start = 0
	}

	for i := index - 1; i >= start; i-- {
		distance := index - i
		lower := tokens[i].lower

		if _, ok := negatorLexicon[lower]; ok {
			valence *= negationFactor
			continue
		}
		if factor, ok := intensifierLexicon[lower]; ok {
			scaled := 1 + (factor-1)*(1-0.25*float64(distance-1))
			valence *= scaled
		}
	}

	return valence
}

// token is a single word with lookup and emphasis metadata.
type token struct {
	lower    string
	emphatic bool
}

// tokenize splits text into lexicon lookup tokens, trimming surrounding
// punctuation but keeping inner apostrophes so contractions survive.
func tokenize(text string) []token {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	allCaps := text == strings.ToUpper(text)

	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, ".,!?;:\"'()[]{}<>*-")
		if w == "" {
			continue
		}
		emphatic := !allCaps && w == strings.ToUpper(w) && strings.ToLower(w) != w
		tokens = append(tokens, token{
			lower:    strings.ToLower(w),
			emphatic: emphatic,
		})
	}
	return tokens
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
