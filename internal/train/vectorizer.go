package train

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes is the minimum token length that becomes a vocabulary
// candidate. Single letters are noise.
const minTokenRunes = 2

// Vectorizer maps free text to sparse bag-of-words count vectors over a
// vocabulary fixed at fit time. A document vectorized with a different
// vocabulary produces meaningless class scores, so the vectorizer always
// travels with the classifier it trained (see Artifacts).
type Vectorizer struct {
	// Vocabulary maps terms to their feature index.
	Vocabulary map[string]int `json:"vocabulary"`
}

// fitVectorizer builds the vocabulary: tokens from docs ranked by document
// frequency, stopwords removed, capped at maxFeatures terms. Ties in
// document frequency break lexicographically so the vocabulary is a
// deterministic function of the corpus.
func fitVectorizer(docs []string, maxFeatures int) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	// Feature indices follow alphabetical term order for stable output.
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return &Vectorizer{Vocabulary: vocab}
}

// Size returns the number of features (vocabulary terms).
func (v *Vectorizer) Size() int {
	return len(v.Vocabulary)
}

// Transform converts one document to its count vector.
func (v *Vectorizer) Transform(doc string) []float64 {
	vec := make([]float64, len(v.Vocabulary))
	for _, tok := range tokenize(doc) {
		if idx, ok := v.Vocabulary[tok]; ok {
			vec[idx]++
		}
	}
	return vec
}

// TransformAll converts a document slice to its count matrix.
func (v *Vectorizer) TransformAll(docs []string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// tokenize splits text into lowercase alphanumeric tokens of at least
// minTokenRunes runes with stopwords removed.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		b.Reset()
		if utf8.RuneCountInString(tok) < minTokenRunes {
			return
		}
		if isStopword(tok) {
			return
		}
		tokens = append(tokens, tok)
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return tokens
}
