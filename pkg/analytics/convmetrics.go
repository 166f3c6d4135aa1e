package analytics

// ComputeConversationMetrics aggregates turn-taking and volume statistics
// over the parsed turns. Duration is an estimate from word counts at the
// configured speaking rate; the engine never sees audio timing.
func ComputeConversationMetrics(turns []Turn, wordsPerMinute float64) ConversationMetrics {
	m := ConversationMetrics{DurationIsEstimate: true}

	for _, turn := range turns {
		m.TotalTurns++
		m.TotalWords += turn.WordCount
		switch turn.Speaker {
		case SpeakerAgent:
			m.AgentTurns++
			m.AgentWordCount += turn.WordCount
		case SpeakerCustomer:
			m.CustomerTurns++
			m.CustomerWordCount += turn.WordCount
		}
	}

	if m.CustomerTurns > 0 {
		m.TurnRatio = roundTo(float64(m.AgentTurns)/float64(m.CustomerTurns), 2)
	}
	if m.TotalTurns > 0 {
		m.AverageWordsPerTurn = roundTo(float64(m.TotalWords)/float64(m.TotalTurns), 2)
	}
	if wordsPerMinute > 0 {
		m.EstimatedDurationMinutes = roundTo(float64(m.TotalWords)/wordsPerMinute, 1)
	}

	return m
}
