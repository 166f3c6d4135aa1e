package analytics

// AggregateStats is a cross-call reduction over completed reports. Each
// report is treated as an opaque, fully-populated value.
type AggregateStats struct {
	TotalReports          int              `json:"total_reports"`
	SentimentDistribution map[Polarity]int `json:"sentiment_distribution"`
	IntentDistribution    map[string]int   `json:"intent_distribution"`
	OutcomeDistribution   map[Outcome]int  `json:"outcome_distribution"`
	AverageQualityScore   float64          `json:"average_quality_score"`
	AverageEscalationRisk float64          `json:"average_escalation_risk"`
}

// Aggregate reduces a set of reports into distribution counts and averages.
// Nil reports are skipped.
func Aggregate(reports []*AnalysisReport) AggregateStats {
	stats := AggregateStats{
		SentimentDistribution: make(map[Polarity]int),
		IntentDistribution:    make(map[string]int),
		OutcomeDistribution:   make(map[Outcome]int),
	}

	qualitySum := 0.0
	riskSum := 0.0
	for _, report := range reports {
		if report == nil {
			continue
		}
		stats.TotalReports++
		stats.SentimentDistribution[report.Sentiment.Overall.Polarity]++
		stats.IntentDistribution[report.Intent.PrimaryIntent]++
		stats.OutcomeDistribution[report.Quality.CallOutcome]++
		qualitySum += report.Quality.QualityScore
		riskSum += report.Quality.EscalationRisk
	}

	if stats.TotalReports > 0 {
		stats.AverageQualityScore = roundTo(qualitySum/float64(stats.TotalReports), 4)
		stats.AverageEscalationRisk = roundTo(riskSum/float64(stats.TotalReports), 4)
	}

	return stats
}
