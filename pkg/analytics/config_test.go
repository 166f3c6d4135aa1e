package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callinsight/pkg/errors"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 1.0, cfg.Weights.Sum(), 1e-9)
}

func TestValidateRejectsBadWeightSum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Sentiment: 0.5, Intent: 0.5, Politeness: 0.5, Outcome: 0.5}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidWeights))
}

func TestValidateRejectsNegativeWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Sentiment: 1.2, Intent: -0.2, Politeness: 0.0, Outcome: 0.0}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidWeights))
}

func TestValidateRejectsEmptyCategoryTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntentCategories = nil

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyCategoryTable))
}

func TestValidateRejectsDuplicateCategories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntentCategories = []IntentCategory{
		{Name: "dup", Keywords: []string{"a"}},
		{Name: "dup", Keywords: []string{"b"}},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestValidateRejectsCategoryWithoutKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntentCategories = []IntentCategory{{Name: "empty"}}

	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyMarkerLists(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PositiveMarkers = nil

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingLexicon))
}

func TestValidateRejectsEmptySatisfactionTables(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Insights.SatisfactionEscalation = nil

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingLexicon))
}

func TestValidateRejectsBadScalars(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"zero wpm":            func(c *Config) { c.WordsPerMinute = 0 },
		"zero smoothing":      func(c *Config) { c.IntentSmoothing = 0 },
		"zero phrase limit":   func(c *Config) { c.KeyPhraseLimit = 0 },
		"threshold above one": func(c *Config) { c.PolarityThreshold = 1.5 },
		"no fallback intent":  func(c *Config) { c.FallbackIntent = "" },
		"no speaker labels":   func(c *Config) { c.SpeakerLabels = nil },
	} {
		cfg := DefaultConfig()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
