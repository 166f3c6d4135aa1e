package analytics

import (
	"fmt"
	"math"

	"callinsight/pkg/errors"
)

// Weights controls the composite quality score. The four components must
// sum to 1.0; Validate refuses any other assignment.
type Weights struct {
	Sentiment  float64 `json:"sentiment" yaml:"sentiment"`
	Intent     float64 `json:"intent" yaml:"intent"`
	Politeness float64 `json:"politeness" yaml:"politeness"`
	Outcome    float64 `json:"outcome" yaml:"outcome"`
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Sentiment + w.Intent + w.Politeness + w.Outcome
}

// IntentCategory couples a category tag with its keyword patterns and the
// human-readable strings used by the summarizer. Slice position in
// Config.IntentCategories is the tie-break priority order.
type IntentCategory struct {
	Name         string   `json:"name" yaml:"name"`
	Label        string   `json:"label" yaml:"label"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
	SummaryPoint string   `json:"summary_point" yaml:"summary_point"`
}

// InsightTables holds the phrase lists driving the actionable insight
// rules. All phrases are matched as lower-case substrings.
type InsightTables struct {
	SatisfactionPositive   []string `json:"satisfaction_positive" yaml:"satisfaction_positive"`
	SatisfactionNegative   []string `json:"satisfaction_negative" yaml:"satisfaction_negative"`
	SatisfactionEscalation []string `json:"satisfaction_escalation" yaml:"satisfaction_escalation"`
	ProfessionalPhrases    []string `json:"professional_phrases" yaml:"professional_phrases"`
	EmpathyPhrases         []string `json:"empathy_phrases" yaml:"empathy_phrases"`
	SolutionPhrases        []string `json:"solution_phrases" yaml:"solution_phrases"`
	ResolvedPhrases        []string `json:"resolved_phrases" yaml:"resolved_phrases"`
	UnresolvedPhrases      []string `json:"unresolved_phrases" yaml:"unresolved_phrases"`
	PartialPhrases         []string `json:"partial_phrases" yaml:"partial_phrases"`
	ConfusionPhrases       []string `json:"confusion_phrases" yaml:"confusion_phrases"`
	HoldPhrases            []string `json:"hold_phrases" yaml:"hold_phrases"`
	FollowUpPhrases        []string `json:"follow_up_phrases" yaml:"follow_up_phrases"`
	BillingTerms           []string `json:"billing_terms" yaml:"billing_terms"`
	TechnicalTerms         []string `json:"technical_terms" yaml:"technical_terms"`
}

// Config is the full static configuration for the engine. It is built once
// at startup, validated, and shared read-only across all analyses.
type Config struct {
	// Sentiment
	PolarityThreshold float64 `json:"polarity_threshold" yaml:"polarity_threshold"`

	// Quality
	Weights                    Weights `json:"weights" yaml:"weights"`
	OutcomeResolutionThreshold float64 `json:"outcome_resolution_threshold" yaml:"outcome_resolution_threshold"`
	FallbackOutcomeConfidence  float64 `json:"fallback_outcome_confidence" yaml:"fallback_outcome_confidence"`

	// Intent
	IntentCategories []IntentCategory `json:"intent_categories" yaml:"intent_categories"`
	FallbackIntent   string           `json:"fallback_intent" yaml:"fallback_intent"`
	IntentSmoothing  float64          `json:"intent_smoothing" yaml:"intent_smoothing"`

	// Politeness lexicon, scanned over agent turns by the quality scorer.
	PositiveMarkers []string `json:"positive_markers" yaml:"positive_markers"`
	NegativeMarkers []string `json:"negative_markers" yaml:"negative_markers"`

	// Outcome rule keywords.
	ResolutionKeywords []string `json:"resolution_keywords" yaml:"resolution_keywords"`
	EscalationKeywords []string `json:"escalation_keywords" yaml:"escalation_keywords"`

	// Metrics
	WordsPerMinute float64 `json:"words_per_minute" yaml:"words_per_minute"`

	// Summarizer
	KeyPhraseLimit int `json:"key_phrase_limit" yaml:"key_phrase_limit"`

	// Actionable insight rule tables.
	Insights InsightTables `json:"insights" yaml:"insights"`

	// Parser speaker vocabulary, lowercase label to canonical speaker.
	SpeakerLabels map[string]Speaker `json:"speaker_labels" yaml:"speaker_labels"`
}

// DefaultConfig returns the built-in configuration tuned for customer
// support calls. Callers may adjust fields before Validate.
func DefaultConfig() *Config {
	return &Config{
		PolarityThreshold: 0.05,
		Weights: Weights{
			Sentiment:  0.35,
			Intent:     0.15,
			Politeness: 0.25,
			Outcome:    0.25,
		},
		OutcomeResolutionThreshold: 0.3,
		FallbackOutcomeConfidence:  0.5,
		IntentCategories:           defaultIntentCategories(),
		FallbackIntent:             "general_inquiry",
		IntentSmoothing:            2.0,
		PositiveMarkers: []string{
			"please", "thank you", "thanks", "sorry", "apologize", "i understand",
			"happy to help", "my pleasure", "appreciate", "help", "assist",
		},
		NegativeMarkers: []string{
			"calm down", "as i said", "as i already said", "not my problem",
			"nothing i can do", "that's impossible", "you have to", "policy",
			"hold on", "listen to me",
		},
		ResolutionKeywords: []string{
			"resolved", "fixed", "solved", "working now", "all set", "done",
			"completed", "taken care of", "refunding", "refunded", "credited",
		},
		EscalationKeywords: []string{
			"manager", "supervisor", "escalate", "complaint", "lawyer", "cancel my account",
		},
		WordsPerMinute: 150,
		KeyPhraseLimit: 7,
		Insights:       defaultInsightTables(),
		SpeakerLabels: map[string]Speaker{
			"agent":          SpeakerAgent,
			"rep":            SpeakerAgent,
			"representative": SpeakerAgent,
			"operator":       SpeakerAgent,
			"support":        SpeakerAgent,
			"customer":       SpeakerCustomer,
			"caller":         SpeakerCustomer,
			"client":         SpeakerCustomer,
			"user":           SpeakerCustomer,
			"unknown":        SpeakerUnknown,
		},
	}
}

// Validate checks the configuration invariants. A failure here is a startup
// error; the engine refuses to initialize rather than produce undefined
// scores.
func (c *Config) Validate() error {
	if math.Abs(c.Weights.Sum()-1.0) > 1e-6 {
		return errors.Wrap(errors.ErrInvalidWeights, fmt.Sprintf("quality weights sum to %.4f, expected 1.0", c.Weights.Sum()))
	}
	if c.Weights.Sentiment < 0 || c.Weights.Intent < 0 || c.Weights.Politeness < 0 || c.Weights.Outcome < 0 {
		return errors.Wrap(errors.ErrInvalidWeights, "quality weights must be non-negative")
	}
	if len(c.IntentCategories) == 0 {
		return errors.Wrap(errors.ErrEmptyCategoryTable, "at least one intent category is required")
	}
	seen := make(map[string]bool, len(c.IntentCategories))
	for _, cat := range c.IntentCategories {
		if cat.Name == "" {
			return errors.Wrap(errors.ErrEmptyCategoryTable, "intent category with empty name")
		}
		if seen[cat.Name] {
			return errors.Wrap(errors.ErrEmptyCategoryTable, "duplicate intent category "+cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Keywords) == 0 {
			return errors.Wrap(errors.ErrEmptyCategoryTable, "intent category "+cat.Name+" has no keywords")
		}
	}
	if c.FallbackIntent == "" {
		return errors.Wrap(errors.ErrEmptyCategoryTable, "fallback intent is required")
	}
	if c.IntentSmoothing <= 0 {
		return errors.New("intent smoothing constant must be positive")
	}
	if len(c.PositiveMarkers) == 0 || len(c.NegativeMarkers) == 0 {
		return errors.Wrap(errors.ErrMissingLexicon, "politeness marker lists must not be empty")
	}
	if c.WordsPerMinute <= 0 {
		return errors.New("words per minute must be positive")
	}
	if c.KeyPhraseLimit <= 0 {
		return errors.New("key phrase limit must be positive")
	}
	if len(c.Insights.SatisfactionPositive) == 0 || len(c.Insights.SatisfactionNegative) == 0 ||
		len(c.Insights.SatisfactionEscalation) == 0 {
		return errors.Wrap(errors.ErrMissingLexicon, "satisfaction indicator lists must not be empty")
	}
	if c.PolarityThreshold < 0 || c.PolarityThreshold > 1 {
		return errors.New("polarity threshold must be in [0,1]")
	}
	if len(c.SpeakerLabels) == 0 {
		return errors.Wrap(errors.ErrMissingLexicon, "speaker label vocabulary must not be empty")
	}
	return nil
}

// categoryLabel returns the human-readable label for an intent category,
// falling back to the tag itself.
func (c *Config) categoryLabel(name string) string {
	for _, cat := range c.IntentCategories {
		if cat.Name == name {
			if cat.Label != "" {
				return cat.Label
			}
			return cat.Name
		}
	}
	return name
}

func defaultIntentCategories() []IntentCategory {
	return []IntentCategory{
		{
			Name:  "billing_inquiry",
			Label: "Billing Inquiry",
			Keywords: []string{
				"bill", "billing", "charge", "charged", "payment", "invoice", "fee",
				"cost", "price", "amount due", "overpay", "dispute", "subscription",
			},
			SummaryPoint: "Customer contacted regarding billing or payment matters",
		},
		{
			Name:  "technical_support",
			Label: "Technical Support",
			Keywords: []string{
				"not working", "broken", "error", "issue", "problem", "trouble",
				"fix", "repair", "internet", "wifi", "connection", "network",
				"slow", "setup", "install", "configure", "troubleshoot",
			},
			SummaryPoint: "Customer reported technical issues requiring support",
		},
		{
			Name:  "account_management",
			Label: "Account Management",
			Keywords: []string{
				"account", "profile", "password", "login", "username", "update",
				"change", "modify", "suspend", "activate",
			},
			SummaryPoint: "Customer requested changes to account details or access",
		},
		{
			Name:  "service_inquiry",
			Label: "Service Inquiry",
			Keywords: []string{
				"service", "plan", "package", "available", "offer", "feature",
				"option", "include",
			},
			SummaryPoint: "Customer asked about available services or plan options",
		},
		{
			Name:  "complaint",
			Label: "Complaint",
			Keywords: []string{
				"complain", "complaint", "unhappy", "dissatisfied", "angry",
				"frustrated", "terrible", "awful", "horrible", "worst", "hate",
				"manager", "supervisor", "escalate",
			},
			SummaryPoint: "Customer expressed dissatisfaction or complaint",
		},
		{
			Name:  "cancellation_request",
			Label: "Cancellation Request",
			Keywords: []string{
				"cancel", "cancellation", "terminate", "disconnect", "stop service",
				"close account", "end service", "quit", "switch provider", "competitor",
			},
			SummaryPoint: "Customer requested service cancellation or termination",
		},
		{
			Name:  "retention_opportunity",
			Label: "Retention Opportunity",
			Keywords: []string{
				"thinking about cancel", "considering leaving", "better offer",
				"cheaper", "lower price", "not happy with", "disappointed with",
			},
			SummaryPoint: "Customer expressed dissatisfaction - retention opportunity identified",
		},
		{
			Name:  "upgrade_request",
			Label: "Upgrade Request",
			Keywords: []string{
				"upgrade", "faster", "premium", "advanced", "professional",
				"business", "add features", "additional", "extra",
			},
			SummaryPoint: "Customer inquired about service upgrades or additional features",
		},
		{
			Name:  "refund_request",
			Label: "Refund Request",
			Keywords: []string{
				"refund", "money back", "reimburse", "credit back", "charged wrong",
				"incorrect charge", "charged twice", "billing error", "owe me",
			},
			SummaryPoint: "Customer requested refund or billing credit",
		},
		{
			Name:  "new_service",
			Label: "New Service",
			Keywords: []string{
				"new service", "sign up", "subscribe", "interested in",
				"want to add", "another line", "new plan",
			},
			SummaryPoint: "Customer interested in additional services or new account",
		},
		{
			Name:  "payment_issue",
			Label: "Payment Issue",
			Keywords: []string{
				"payment failed", "card declined", "declined", "auto pay",
				"automatic payment", "late fee", "overdue", "past due", "missed payment",
			},
			SummaryPoint: "Customer experienced payment or billing processing issues",
		},
		{
			Name:  "service_outage",
			Label: "Service Outage",
			Keywords: []string{
				"outage", "down", "no service", "no internet", "no connection",
				"service interruption", "network down", "system down",
				"when will it be fixed", "how long",
			},
			SummaryPoint: "Customer reported service outage or connectivity issues",
		},
		{
			Name:  "equipment_issue",
			Label: "Equipment Issue",
			Keywords: []string{
				"equipment", "device", "modem", "router", "remote", "replace",
				"exchange", "defective", "faulty", "technician", "service call",
				"appointment",
			},
			SummaryPoint: "Customer reported equipment problems requiring replacement or repair",
		},
	}
}

func defaultInsightTables() InsightTables {
	return InsightTables{
		SatisfactionPositive: []string{
			"thank you", "thanks", "appreciate", "helpful", "great", "excellent",
			"perfect", "satisfied", "happy", "resolved",
		},
		SatisfactionNegative: []string{
			"frustrated", "angry", "disappointed", "terrible", "awful", "horrible",
			"worst", "hate", "unsatisfied", "complaint",
		},
		SatisfactionEscalation: []string{
			"manager", "supervisor", "escalate", "cancel", "close account",
			"switch provider", "file complaint",
		},
		ProfessionalPhrases: []string{
			"thank you for calling", "how may i help", "i understand", "i apologize",
			"let me check", "i can help", "is there anything else",
		},
		EmpathyPhrases: []string{
			"i understand", "i can imagine", "that must be frustrating", "i apologize",
			"sorry for the inconvenience", "i hear you",
		},
		SolutionPhrases: []string{
			"let me help", "i can fix", "i will resolve", "here is what we can do",
			"let me find a solution", "i can assist",
		},
		ResolvedPhrases: []string{
			"resolved", "fixed", "solved", "working now", "issue closed",
			"problem solved", "all set", "taken care of",
		},
		UnresolvedPhrases: []string{
			"still not working", "still having issues", "not fixed", "call back",
			"follow up needed", "escalate",
		},
		PartialPhrases: []string{
			"temporary fix", "workaround", "partial solution", "will monitor", "check back",
		},
		ConfusionPhrases: []string{
			"can you repeat", "i don't understand", "what do you mean",
			"can you clarify", "i'm confused", "unclear", "didn't catch that",
		},
		HoldPhrases: []string{
			"please hold", "one moment", "let me check", "bear with me",
		},
		FollowUpPhrases: []string{
			"will call back", "follow up", "check on", "monitor", "update you", "let you know",
		},
		BillingTerms: []string{
			"billing", "charge", "payment", "invoice", "bill",
		},
		TechnicalTerms: []string{
			"technical", "connection", "internet", "device", "equipment",
		},
	}
}
