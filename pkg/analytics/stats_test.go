package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	engine := newTestEngine(t)

	reports := []*AnalysisReport{
		engine.Analyze("Agent: Hello!\nCustomer: My bill is wrong.\nAgent: Fixed, sorry!\nCustomer: Great, thank you!"),
		engine.Analyze("Customer: This is terrible, I am very frustrated with this awful service."),
		nil,
	}

	stats := Aggregate(reports)

	assert.Equal(t, 2, stats.TotalReports)
	assert.Equal(t, 1, stats.IntentDistribution["billing_inquiry"])
	assert.Equal(t, 1, stats.SentimentDistribution[PolarityNegative])
	assert.Equal(t, 1, stats.SentimentDistribution[PolarityPositive])

	total := 0
	for _, n := range stats.OutcomeDistribution {
		total += n
	}
	assert.Equal(t, 2, total)

	assert.GreaterOrEqual(t, stats.AverageQualityScore, 0.0)
	assert.LessOrEqual(t, stats.AverageQualityScore, 1.0)
	assert.GreaterOrEqual(t, stats.AverageEscalationRisk, 0.0)
	assert.LessOrEqual(t, stats.AverageEscalationRisk, 1.0)
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)

	assert.Zero(t, stats.TotalReports)
	assert.Zero(t, stats.AverageQualityScore)
	assert.Zero(t, stats.AverageEscalationRisk)
	assert.NotNil(t, stats.SentimentDistribution)
	assert.NotNil(t, stats.IntentDistribution)
	assert.NotNil(t, stats.OutcomeDistribution)
}
