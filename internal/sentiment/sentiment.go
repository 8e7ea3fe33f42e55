// Package sentiment implements the lexicon-based polarity scoring behind the
// local prediction server. Scores are in [-1, 1]; labels follow the ±0.1
// neutral band.
package sentiment

import (
	"strings"
	"unicode"
)

const (
	LabelPositive     = "Positive"
	LabelNegative     = "Negative"
	LabelNeutral      = "Neutral"
	LabelVeryPositive = "Very Positive"
	LabelVeryNegative = "Very Negative"
)

const neutralBand = 0.1

// lexicon maps sentiment-bearing words to polarity. Small on purpose: the
// point is deterministic scoring, not linguistic coverage.
var lexicon = map[string]float64{
	"good":       0.7,
	"great":      0.8,
	"excellent":  0.9,
	"amazing":    0.85,
	"awesome":    0.9,
	"wonderful":  0.85,
	"fantastic":  0.9,
	"love":       0.8,
	"like":       0.4,
	"happy":      0.7,
	"best":       0.9,
	"nice":       0.6,
	"perfect":    0.95,
	"beautiful":  0.8,
	"enjoy":      0.6,
	"pleasant":   0.6,
	"delightful": 0.8,
	"fun":        0.5,

	"bad":          -0.7,
	"terrible":     -0.8,
	"awful":        -0.9,
	"horrible":     -0.9,
	"hate":         -0.8,
	"dislike":      -0.5,
	"sad":          -0.6,
	"worst":        -0.9,
	"poor":         -0.5,
	"disgusting":   -0.85,
	"boring":       -0.4,
	"annoying":     -0.6,
	"disappointed": -0.7,
	"ugly":         -0.7,
	"broken":       -0.5,
	"useless":      -0.7,
}

var negations = map[string]struct{}{
	"not":     {},
	"no":      {},
	"never":   {},
	"cannot":  {},
	"can't":   {},
	"don't":   {},
	"doesn't": {},
	"isn't":   {},
	"wasn't":  {},
	"won't":   {},
}

// Polarity averages the scores of recognized words. A negation word flips the
// sign of the next sentiment-bearing word. Text with no recognized words
// scores 0.
func Polarity(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var sum float64
	var matched int
	negate := false

	for _, word := range words {
		if _, ok := negations[word]; ok {
			negate = true
			continue
		}

		score, ok := lexicon[word]
		if !ok {
			continue
		}
		if negate {
			score = -score
			negate = false
		}
		sum += score
		matched++
	}

	if matched == 0 {
		return 0
	}

	polarity := sum / float64(matched)
	if polarity > 1 {
		polarity = 1
	} else if polarity < -1 {
		polarity = -1
	}
	return polarity
}

// Label buckets a polarity score the way the base model reports it.
func Label(polarity float64) string {
	switch {
	case polarity > neutralBand:
		return LabelPositive
	case polarity < -neutralBand:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Analyze is the base model: lexicon polarity plus the neutral-band label.
func Analyze(text string) (string, float64) {
	polarity := Polarity(text)
	return Label(polarity), polarity
}

// Override is a custom phrase rule checked before the lexicon. Matching is a
// case-insensitive substring test against the trimmed input, first match wins.
type Override struct {
	Phrase string  `yaml:"phrase"`
	Score  float64 `yaml:"score"`
}

// DefaultOverrides is the custom model's built-in phrase table.
var DefaultOverrides = []Override{
	{Phrase: "love you", Score: 0.95},
	{Phrase: "i love", Score: 0.9},
	{Phrase: "hate you", Score: -0.99},
	{Phrase: "i hate", Score: -0.95},
	{Phrase: "amazing", Score: 0.85},
	{Phrase: "terrible", Score: -0.8},
}

// AnalyzeWithOverrides is the custom model: phrase overrides first, lexicon
// fallback otherwise. Overridden scores label as very positive/negative.
func AnalyzeWithOverrides(text string, overrides []Override) (string, float64) {
	lowered := strings.ToLower(strings.TrimSpace(text))

	for _, override := range overrides {
		if strings.Contains(lowered, override.Phrase) {
			if override.Score > 0.5 {
				return LabelVeryPositive, override.Score
			}
			return LabelVeryNegative, override.Score
		}
	}

	return Analyze(text)
}
