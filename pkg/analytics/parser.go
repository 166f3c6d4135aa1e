package analytics

import (
	"strings"
)

// TranscriptParser splits raw transcript text into ordered speaker turns.
// The expected input format is one "<Speaker>: <text>" utterance per line;
// label matching is case-insensitive against the configured vocabulary.
type TranscriptParser struct {
	labels map[string]Speaker
}

// NewTranscriptParser creates a parser using the speaker vocabulary in cfg.
func NewTranscriptParser(cfg *Config) *TranscriptParser {
	labels := make(map[string]Speaker, len(cfg.SpeakerLabels))
	for label, speaker := range cfg.SpeakerLabels {
		labels[strings.ToLower(label)] = speaker
	}
	return &TranscriptParser{labels: labels}
}

// Parse converts transcript text into turns. The second return value is the
// degraded flag: true when the text was non-empty but contained no
// recognizable speaker label (the whole text becomes one Unknown turn), or
// when the transcript was empty. Malformed input never produces an error.
func (p *TranscriptParser) Parse(text string) ([]Turn, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []Turn{}, true
	}

	turns := make([]Turn, 0, 16)
	labeled := false

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if speaker, rest, ok := p.matchSpeaker(line); ok {
			labeled = true
			turns = append(turns, Turn{
				Index:   len(turns),
				Speaker: speaker,
				Text:    rest,
			})
			continue
		}

		// Continuation text belongs to the previous turn. With no previous
		// turn the line opens an Unknown turn instead.
		if len(turns) > 0 {
			last := &turns[len(turns)-1]
			if last.Text == "" {
				last.Text = line
			} else {
				last.Text += " " + line
			}
		} else {
			turns = append(turns, Turn{Index: 0, Speaker: SpeakerUnknown, Text: line})
		}
	}

	for i := range turns {
		turns[i].WordCount = len(strings.Fields(turns[i].Text))
	}

	return turns, !labeled
}

// matchSpeaker checks for a "<label>:" prefix against the vocabulary.
func (p *TranscriptParser) matchSpeaker(line string) (Speaker, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return SpeakerUnknown, "", false
	}

	label := strings.ToLower(strings.TrimSpace(line[:idx]))
	speaker, ok := p.labels[label]
	if !ok {
		return SpeakerUnknown, "", false
	}

	return speaker, strings.TrimSpace(line[idx+1:]), true
}

// RenderTurns is the inverse of Parse: it formats turns back into the
// canonical "<Speaker>: <text>" line format. Parsing the rendered output
// yields the same turn sequence.
func RenderTurns(turns []Turn) string {
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(displayLabel(turn.Speaker))
		b.WriteString(": ")
		b.WriteString(turn.Text)
	}
	return b.String()
}

func displayLabel(s Speaker) string {
	switch s {
	case SpeakerAgent:
		return "Agent"
	case SpeakerCustomer:
		return "Customer"
	default:
		return "Unknown"
	}
}

// speakerText concatenates the text of all turns for one speaker.
func speakerText(turns []Turn, speaker Speaker) string {
	var parts []string
	for _, turn := range turns {
		if turn.Speaker == speaker {
			parts = append(parts, turn.Text)
		}
	}
	return strings.Join(parts, " ")
}
