package sentiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	label, score := Analyze("this is a great product")
	assert.Equal(t, LabelPositive, label)
	assert.Greater(t, score, 0.1)

	label, score = Analyze("what a terrible experience")
	assert.Equal(t, LabelNegative, label)
	assert.Less(t, score, -0.1)

	label, score = Analyze("the meeting is at noon")
	assert.Equal(t, LabelNeutral, label)
	assert.Equal(t, 0.0, score)
}

func TestPolarityNegation(t *testing.T) {
	positive := Polarity("this is good")
	negated := Polarity("this is not good")
	assert.Greater(t, positive, 0.0)
	assert.Less(t, negated, 0.0)
	assert.InDelta(t, -positive, negated, 1e-9)
}

func TestPolarityBounds(t *testing.T) {
	for _, text := range []string{
		"perfect perfect perfect amazing wonderful",
		"awful horrible worst disgusting terrible",
		"",
	} {
		score := Polarity(text)
		assert.GreaterOrEqual(t, score, -1.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestAnalyzeWithOverrides(t *testing.T) {
	label, score := AnalyzeWithOverrides("I love you so much", DefaultOverrides)
	assert.Equal(t, LabelVeryPositive, label)
	assert.Equal(t, 0.95, score)

	label, score = AnalyzeWithOverrides("I HATE YOU", DefaultOverrides)
	assert.Equal(t, LabelVeryNegative, label)
	assert.Equal(t, -0.99, score)

	// First match wins: "love you" precedes "i love" in the table.
	_, score = AnalyzeWithOverrides("i love you", DefaultOverrides)
	assert.Equal(t, 0.95, score)

	// No override match falls back to the lexicon.
	label, _ = AnalyzeWithOverrides("this is good", DefaultOverrides)
	assert.Equal(t, LabelPositive, label)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	content := "overrides:\n  - phrase: \"so cool\"\n    score: 0.7\n  - phrase: \"the worst\"\n    score: -0.9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	overrides, err := LoadOverrides(path)
	require.NoError(t, err)
	require.Len(t, overrides, 2)
	assert.Equal(t, "so cool", overrides[0].Phrase)
	assert.Equal(t, -0.9, overrides[1].Score)

	label, _ := AnalyzeWithOverrides("that was so cool", overrides)
	assert.Equal(t, LabelVeryPositive, label)
}

func TestLoadOverridesRejectsEmptyPhrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("overrides:\n  - phrase: \"\"\n    score: 0.5\n"), 0o644))

	_, err := LoadOverrides(path)
	assert.Error(t, err)
}
