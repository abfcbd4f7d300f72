package sentiment

import (
	_ "embed"
	"strconv"
	"strings"
	"unicode"
)

//go:embed lexicon.txt
var lexiconRaw string

// lexicon maps lowercase words to polarity scores, built once at init.
var lexicon map[string]float64

func init() {
	lexicon = parseLexicon(lexiconRaw)
}

// parseLexicon parses tab-separated "word\tscore" lines.
func parseLexicon(raw string) map[string]float64 {
	m := make(map[string]float64, 512)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		word := strings.TrimSpace(parts[0])
		score, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		m[word] = score
	}
	return m
}

// negators flip the sign of the word they precede.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {},
	"cannot": {}, "can't": {}, "don't": {}, "doesn't": {}, "didn't": {},
	"won't": {}, "wouldn't": {}, "isn't": {}, "wasn't": {}, "aren't": {},
	"weren't": {}, "couldn't": {}, "shouldn't": {}, "hardly": {}, "barely": {},
}

// modifiers scale the score of the word they precede.
var modifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.3, "absolutely": 1.3,
	"totally": 1.3, "incredibly": 1.3, "so": 1.2, "super": 1.3,
	"slightly": 0.5, "somewhat": 0.5, "fairly": 0.7, "kinda": 0.5,
	"mildly": 0.5, "bit": 0.5,
}

// negationWindow is how many preceding tokens are checked for a negator.
const negationWindow = 2

// analyze implements the core scoring pipeline.
func analyze(text string) Result {
	words := tokenize(text)
	if len(words) == 0 {
		return Result{Label: Neutral}
	}

	var (
		sum      float64
		scored   int
		posCount int
		negCount int
	)

	for i, word := range words {
		score, ok := lexicon[word]
		if !ok {
			continue
		}

		if scale, ok := modifiers[prevWord(words, i)]; ok {
			score *= scale
		}
		if negatedAt(words, i) {
			score = -score
		}
		score = clamp(score)

		sum += score
		scored++
		if score > 0 {
			posCount++
		} else if score < 0 {
			negCount++
		}
	}

	if scored == 0 {
		return Result{Label: Neutral, Total: len(words)}
	}

	avg := clamp(sum / float64(scored))

	return Result{
		Score:    avg,
		Label:    LabelForScore(avg),
		Positive: posCount,
		Negative: negCount,
		Total:    len(words),
	}
}

// tokenize splits text into lowercase word tokens. Apostrophes are kept so
// contractions like "didn't" survive as single tokens.
func tokenize(text string) []string {
	var words []string
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || r == '\'' {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			words = append(words, strings.Trim(b.String(), "'"))
			b.Reset()
		}
	}
	if b.Len() > 0 {
		words = append(words, strings.Trim(b.String(), "'"))
	}
	return words
}

// negatedAt reports whether a negator appears within negationWindow tokens
// before position idx.
func negatedAt(words []string, idx int) bool {
	for j := idx - 1; j >= 0 && j >= idx-negationWindow; j-- {
		if _, ok := negators[words[j]]; ok {
			return true
		}
	}
	return false
}

// prevWord returns the token immediately before idx, or "".
func prevWord(words []string, idx int) string {
	if idx == 0 {
		return ""
	}
	return words[idx-1]
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
