package gal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject_WholeText(t *testing.T) {
	data, ok := ExtractJSONObject(`  {"narration": "hi", "favorability_delta": 5}  `)
	require.True(t, ok)
	assert.JSONEq(t, `{"narration": "hi", "favorability_delta": 5}`, string(data))
}

func TestExtractJSONObject_EmbeddedInProse(t *testing.T) {
	text := "Sure! Here is the result:\n```json\n{\"mood\": \"positive\", \"nested\": {\"a\": 1}}\n```\nHope that helps."
	data, ok := ExtractJSONObject(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"mood": "positive", "nested": {"a": 1}}`, string(data))
}

func TestExtractJSONObject_SkipsUnparseableCandidate(t *testing.T) {
	// The first balanced span is not valid JSON; the second is.
	text := `{not json} but later {"delta": -3} appears`
	data, ok := ExtractJSONObject(text)
	require.True(t, ok)
	assert.JSONEq(t, `{"delta": -3}`, string(data))
}

func TestExtractJSONObject_None(t *testing.T) {
	for _, text := range []string{
		"no braces at all",
		"unbalanced { forever",
		"{also broken} {and this}",
		"",
	} {
		_, ok := ExtractJSONObject(text)
		assert.False(t, ok, "text %q", text)
	}
}
