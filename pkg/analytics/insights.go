package analytics

import (
	"fmt"
	"strings"
)

// Insight priority levels, highest urgency first.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Insight is one actionable recommendation derived from the call. Category
// names the area reviewed, Level grades it, and Action is the concrete
// step suggested for the service team.
type Insight struct {
	Category string `json:"category"`
	Level    string `json:"level"`
	Insight  string `json:"insight"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
}

// InsightGenerator derives coaching and follow-up recommendations from the
// transcript using the configured phrase tables. It holds only read-only
// state and is safe for concurrent use.
type InsightGenerator struct {
	cfg *Config
}

// NewInsightGenerator creates a generator over the configured rule tables.
func NewInsightGenerator(cfg *Config) *InsightGenerator {
	return &InsightGenerator{cfg: cfg}
}

// Generate inspects the call and returns zero or more insights in a fixed
// section order: customer satisfaction, agent performance, resolution
// effectiveness, communication quality, follow-up actions. Sections with
// nothing to report are omitted.
func (g *InsightGenerator) Generate(transcript string, turns []Turn, overall SentimentResult) []Insight {
	lower := strings.ToLower(transcript)

	var insights []Insight
	for _, rule := range []func() *Insight{
		func() *Insight { return g.customerSatisfaction(lower) },
		func() *Insight { return g.agentPerformance(turns) },
		func() *Insight { return g.resolutionEffectiveness(lower) },
		func() *Insight { return g.communicationQuality(lower) },
		func() *Insight { return g.followUpActions(lower, overall) },
	} {
		if insight := rule(); insight != nil {
			insights = append(insights, *insight)
		}
	}
	return insights
}

// customerSatisfaction grades the customer's expressed satisfaction.
// Escalation language dominates: a single escalation phrase outweighs any
// number of positive indicators.
func (g *InsightGenerator) customerSatisfaction(lower string) *Insight {
	tables := g.cfg.Insights
	positive := countPhrases(lower, tables.SatisfactionPositive)
	negative := countPhrases(lower, tables.SatisfactionNegative)
	escalation := countPhrases(lower, tables.SatisfactionEscalation)

	switch {
	case escalation > 0:
		return &Insight{
			Category: "Customer Satisfaction",
			Level:    "Critical",
			Insight:  fmt.Sprintf("Customer expressed escalation intent (%d indicators)", escalation),
			Action:   "Immediate supervisor involvement required. Consider retention offer.",
			Priority: PriorityHigh,
		}
	case negative > positive && negative > 2:
		return &Insight{
			Category: "Customer Satisfaction",
			Level:    "Low",
			Insight:  fmt.Sprintf("Customer expressed significant dissatisfaction (%d negative indicators)", negative),
			Action:   "Follow-up call recommended. Review service delivery process.",
			Priority: PriorityMedium,
		}
	case positive > negative && positive > 1:
		return &Insight{
			Category: "Customer Satisfaction",
			Level:    "High",
			Insight:  fmt.Sprintf("Customer expressed satisfaction (%d positive indicators)", positive),
			Action:   "Consider requesting review or referral. Document best practices used.",
			Priority: PriorityLow,
		}
	}
	return nil
}

// agentPerformance reviews the agent's side of the call for professional
// courtesy, empathy and solution-oriented language.
func (g *InsightGenerator) agentPerformance(turns []Turn) *Insight {
	agentText := strings.ToLower(speakerText(turns, SpeakerAgent))
	if agentText == "" {
		return nil
	}

	tables := g.cfg.Insights
	professional := countPhrases(agentText, tables.ProfessionalPhrases)
	empathy := countPhrases(agentText, tables.EmpathyPhrases)
	solution := countPhrases(agentText, tables.SolutionPhrases)
	agentWords := len(strings.Fields(agentText))

	switch {
	case professional == 0 && agentWords > 50:
		return &Insight{
			Category: "Agent Performance",
			Level:    "Needs Improvement",
			Insight:  "Agent did not use standard professional greetings or courtesies",
			Action:   "Provide customer service etiquette training. Review call opening procedures.",
			Priority: PriorityMedium,
		}
	case empathy == 0 && strings.Contains(agentText, "problem"):
		return &Insight{
			Category: "Agent Performance",
			Level:    "Needs Improvement",
			Insight:  "Agent handled customer issues without expressing empathy",
			Action:   "Empathy training recommended. Practice active listening techniques.",
			Priority: PriorityMedium,
		}
	case solution > 2 && empathy > 1:
		return &Insight{
			Category: "Agent Performance",
			Level:    "Excellent",
			Insight:  "Agent demonstrated strong problem-solving and empathy skills",
			Action:   "Recognize performance. Consider as training example for other agents.",
			Priority: PriorityLow,
		}
	}
	return nil
}

// resolutionEffectiveness grades how conclusively the issue was handled.
// Any unresolved phrase overrides resolution language from earlier in the
// call.
func (g *InsightGenerator) resolutionEffectiveness(lower string) *Insight {
	tables := g.cfg.Insights
	resolved := countPhrases(lower, tables.ResolvedPhrases)
	unresolved := countPhrases(lower, tables.UnresolvedPhrases)
	partial := countPhrases(lower, tables.PartialPhrases)

	switch {
	case resolved > 0 && unresolved == 0:
		return &Insight{
			Category: "Resolution Effectiveness",
			Level:    "Successful",
			Insight:  "Issue appears to be fully resolved during the call",
			Action:   "Schedule follow-up to confirm resolution. Document solution for knowledge base.",
			Priority: PriorityLow,
		}
	case unresolved > 0:
		return &Insight{
			Category: "Resolution Effectiveness",
			Level:    "Unsuccessful",
			Insight:  "Issue remains unresolved. Customer may need additional support.",
			Action:   "Schedule follow-up call within 24 hours. Escalate to technical team if needed.",
			Priority: PriorityHigh,
		}
	case partial > 0:
		return &Insight{
			Category: "Resolution Effectiveness",
			Level:    "Partial",
			Insight:  "Temporary solution provided. Full resolution may be pending.",
			Action:   "Monitor customer account. Proactive follow-up in 48 hours recommended.",
			Priority: PriorityMedium,
		}
	}
	return nil
}

// communicationQuality flags calls with repeated clarity problems or
// excessive holds.
func (g *InsightGenerator) communicationQuality(lower string) *Insight {
	tables := g.cfg.Insights
	confusion := countPhrases(lower, tables.ConfusionPhrases)
	holds := countPhrases(lower, tables.HoldPhrases)

	switch {
	case confusion > 2:
		return &Insight{
			Category: "Communication Quality",
			Level:    "Poor",
			Insight:  fmt.Sprintf("Multiple communication clarity issues detected (%d instances)", confusion),
			Action:   "Agent training on clear communication. Review technical explanation methods.",
			Priority: PriorityMedium,
		}
	case holds > 3:
		return &Insight{
			Category: "Communication Quality",
			Level:    "Inefficient",
			Insight:  fmt.Sprintf("Excessive hold times or information gathering (%d instances)", holds),
			Action:   "Review knowledge base accessibility. Consider additional agent training on common issues.",
			Priority: PriorityMedium,
		}
	}
	return nil
}

// followUpActions collects concrete next steps implied by the call content
// and the overall sentiment.
func (g *InsightGenerator) followUpActions(lower string, overall SentimentResult) *Insight {
	tables := g.cfg.Insights

	var recommendations []string
	if countPhrases(lower, tables.FollowUpPhrases) > 0 {
		recommendations = append(recommendations, "Schedule promised follow-up call")
	}
	if containsAny(lower, tables.BillingTerms) && overall.Polarity == PolarityNegative {
		recommendations = append(recommendations, "Review billing accuracy and consider account credit")
	}
	if containsAny(lower, tables.TechnicalTerms) {
		recommendations = append(recommendations, "Monitor service quality for next 48 hours")
	}
	if overall.Polarity == PolarityNegative {
		recommendations = append(recommendations, "Consider customer retention outreach")
	}

	if len(recommendations) == 0 {
		return nil
	}
	return &Insight{
		Category: "Follow-up Actions",
		Level:    "Required",
		Insight:  "Multiple follow-up actions needed based on call content",
		Action:   strings.Join(recommendations, "; "),
		Priority: PriorityMedium,
	}
}

// countPhrases sums substring occurrences of every phrase in lower-cased
// text.
func countPhrases(lower string, phrases []string) int {
	total := 0
	for _, phrase := range phrases {
		total += strings.Count(lower, phrase)
	}
	return total
}

func containsAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
