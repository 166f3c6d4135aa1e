package analytics

import (
	"strings"
	"unicode"
)

// fleschReadingEase computes the Flesch reading ease of the text:
// 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words). Higher means
// easier to read; typical conversational speech lands between 60 and 100.
// Returns 0 for text with no words.
func fleschReadingEase(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := countSentences(text)
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	score := 206.835 -
		1.015*(float64(len(words))/float64(sentences)) -
		84.6*(float64(syllables)/float64(len(words)))
	return roundTo(score, 2)
}

// countSentences counts runs of terminal punctuation, treating unpunctuated
// text as a single sentence.
func countSentences(text string) int {
	count := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				count++
				inTerminator = true
			}
		default:
			inTerminator = false
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// countSyllables estimates syllables by counting vowel groups, discounting
// a silent trailing e. Every word counts as at least one syllable.
func countSyllables(word string) int {
	lower := strings.ToLower(word)

	count := 0
	prevVowel := false
	lastVowelRune := rune(0)
	runeCount := 0
	var lastRune rune

	for _, r := range lower {
		if !unicode.IsLetter(r) {
			prevVowel = false
			continue
		}
		runeCount++
		lastRune = r
		if isVowel(r) {
			if !prevVowel {
				count++
				lastVowelRune = r
			}
			prevVowel = true
		} else {
			prevVowel = false
		}
	}

	if lastRune == 'e' && lastVowelRune == 'e' && count > 1 {
		count--
	}
	if count == 0 && runeCount > 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
