package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFleschReadingEaseEmptyText(t *testing.T) {
	assert.Equal(t, 0.0, fleschReadingEase(""))
	assert.Equal(t, 0.0, fleschReadingEase("   \n\t"))
}

func TestFleschReadingEaseSimpleSentence(t *testing.T) {
	// 6 words, 1 sentence, 6 syllables:
	// 206.835 - 1.015*6 - 84.6*1 = 116.145.
	score := fleschReadingEase("The cat sat on the mat.")
	assert.InDelta(t, 116.145, score, 0.01)
}

func TestFleschReadingEaseSimplerTextScoresHigher(t *testing.T) {
	simple := fleschReadingEase("The cat sat. The dog ran. We all went home.")
	dense := fleschReadingEase("Organizational interdependencies necessitate comprehensive reconciliation of administrative documentation procedures")

	assert.Greater(t, simple, dense)
}

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"cat":      1,
		"make":     1,
		"analysis": 4,
		"the":      1,
		"rhythm":   1,
		"mmm":      1,
		"billing":  2,
	}
	for word, want := range cases {
		assert.Equal(t, want, countSyllables(word), "word %q", word)
	}
}

func TestCountSentences(t *testing.T) {
	assert.Equal(t, 1, countSentences("no terminal punctuation"))
	assert.Equal(t, 3, countSentences("Hello! How are you? Fine..."))
}
