package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("something broke")

	assert.Equal(t, "something broke", err.Error())
	assert.True(t, strings.HasPrefix(err.Location(), "errors_test.go:"))
	assert.Empty(t, err.GetFields())
}

func TestNewWithFields(t *testing.T) {
	err := New("bad value", map[string]interface{}{"key": "threshold", "value": 2.5})

	fields := err.GetFields()
	assert.Equal(t, "threshold", fields["key"])
	assert.Equal(t, 2.5, fields["value"])
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("disk full")
	err := Wrap(base, "failed to write report")

	assert.Equal(t, "failed to write report: disk full", err.Error())
	assert.True(t, Is(err, base))
	assert.Equal(t, base, err.Unwrap())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "no error"))
}

func TestWrapSentinel(t *testing.T) {
	err := Wrap(ErrInvalidWeights, "weights sum to 1.5")

	assert.True(t, Is(err, ErrInvalidWeights))
	assert.False(t, Is(err, ErrMissingLexicon))
	assert.Contains(t, err.Error(), "weights sum to 1.5")
}

func TestWithFieldDoesNotMutateOriginal(t *testing.T) {
	base := New("base")
	derived := base.WithField("item_id", "abc")

	assert.Empty(t, base.GetFields())
	assert.Equal(t, "abc", derived.GetFields()["item_id"])
	// The wrapped chain is preserved.
	assert.Equal(t, base.Unwrap(), derived.Unwrap())
}

func TestWithFields(t *testing.T) {
	err := New("base").
		WithField("a", 1).
		WithFields(map[string]interface{}{"b": 2, "c": 3})

	fields := err.GetFields()
	require.Len(t, fields, 3)
	assert.Equal(t, 1, fields["a"])
	assert.Equal(t, 2, fields["b"])
}

func TestWithCode(t *testing.T) {
	err := New("base").WithCode("SOME_CODE")
	assert.Equal(t, "SOME_CODE", err.Code)
}

func TestAsJSON(t *testing.T) {
	err := Wrap(ErrInvalidWeights, "bad config").
		WithCode("CONFIGURATION_ERROR").
		WithField("sum", 1.5)

	payload := err.AsJSON()

	assert.Equal(t, "bad config: invalid quality score weights", payload["message"])
	assert.Equal(t, "CONFIGURATION_ERROR", payload["code"])
	assert.NotEmpty(t, payload["location"])

	context, ok := payload["context"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.5, context["sum"])
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError(ErrInvalidWeights, "invalid analytics configuration")

	require.NotNil(t, err)
	assert.Equal(t, "CONFIGURATION_ERROR", err.Code)
	assert.True(t, Is(err, ErrInvalidWeights))

	assert.Nil(t, NewConfigurationError(nil, "nothing wrong"))
}

func TestNewAnalysisError(t *testing.T) {
	err := NewAnalysisError("transcript rejected", map[string]interface{}{"reason": "oversize"})

	assert.Equal(t, "ANALYSIS_FAILED", err.Code)
	assert.True(t, Is(err, ErrAnalysisFailed))
	assert.Equal(t, "oversize", err.GetFields()["reason"])
}

func TestAs(t *testing.T) {
	var structured *Error
	err := fmt.Errorf("outer: %w", New("inner"))

	require.True(t, As(err, &structured))
	assert.Equal(t, "inner", structured.Error())
}
