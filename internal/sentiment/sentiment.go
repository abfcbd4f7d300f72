// Package sentiment performs lexicon-based polarity analysis of review text.
//
// The analyzer tokenizes input, lowercases each word, and looks the word up
// in an embedded polarity lexicon. Word scores are adjusted for preceding
// negators and intensifiers, then averaged to produce an aggregate score in
// [-1.0, 1.0]. The score is a deterministic function of the input text alone.
//
// Labeling is a fixed-threshold function of the score:
//
//   - score > 0.2  → Positive
//   - score < -0.2 → Negative
//   - otherwise    → Neutral
//
// The thresholds are strict inequalities: a score of exactly 0.2 or -0.2 is
// Neutral. They are compile-time constants, not runtime configuration.
//
// All functions are safe for concurrent use by multiple goroutines.
package sentiment

import "fmt"

// Label classification thresholds. Strict inequalities on both sides.
const (
	PositiveThreshold = 0.2
	NegativeThreshold = -0.2
)

// Label is a three-way sentiment classification.
type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

// ParseLabel converts a stored label string back into a Label.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case Positive, Neutral, Negative:
		return Label(s), nil
	}
	return "", fmt.Errorf("sentiment: unknown label %q", s)
}

// LabelForScore maps a polarity score to its label under the fixed thresholds.
func LabelForScore(score float64) Label {
	switch {
	case score > PositiveThreshold:
		return Positive
	case score < NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Result holds the sentiment analysis output for one text.
type Result struct {
	Score    float64 // -1.0 to +1.0
	Label    Label
	Positive int // count of positively scored words
	Negative int // count of negatively scored words
	Total    int // total word tokens
}

// String returns a debug representation of the result.
func (r Result) String() string {
	return fmt.Sprintf("%s(score=%.2f, pos=%d, neg=%d, total=%d)",
		r.Label, r.Score, r.Positive, r.Negative, r.Total)
}

// Analyze returns the polarity analysis of text. Text with no lexicon hits
// scores 0.0 and is Neutral.
func Analyze(text string) Result {
	if text == "" {
		return Result{Label: Neutral}
	}
	return analyze(text)
}
