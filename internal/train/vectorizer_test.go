package train

import (
	"reflect"
	"testing"
)

func TestFitVectorizerDocumentFrequencyCap(t *testing.T) {
	docs := []string{
		"screen battery screen",
		"screen battery",
		"screen keyboard",
	}
	// df: screen=3, battery=2, keyboard=1. Cap at 2 keeps the top two.
	v := fitVectorizer(docs, 2)
	if v.Size() != 2 {
		t.Fatalf("expected 2 features, got %d", v.Size())
	}
	if _, ok := v.Vocabulary["screen"]; !ok {
		t.Error("expected 'screen' in vocabulary")
	}
	if _, ok := v.Vocabulary["battery"]; !ok {
		t.Error("expected 'battery' in vocabulary")
	}
	if _, ok := v.Vocabulary["keyboard"]; ok {
		t.Error("'keyboard' should have been cut by the feature cap")
	}
}

func TestFitVectorizerTieBreakDeterministic(t *testing.T) {
	docs := []string{"zebra apple", "zebra apple", "mango zebra"}
	// df: zebra=3, apple=2, mango=1. With cap 2 the result is fixed; among
	// equal-frequency terms the lexicographically smaller wins.
	for i := 0; i < 3; i++ {
		v := fitVectorizer(docs, 2)
		if _, ok := v.Vocabulary["apple"]; !ok {
			t.Fatalf("run %d: expected 'apple' kept over 'mango'", i)
		}
	}
}

func TestFitVectorizerRemovesStopwords(t *testing.T) {
	v := fitVectorizer([]string{"the screen is very good and it works"}, 100)
	for _, stop := range []string{"the", "is", "and", "it"} {
		if _, ok := v.Vocabulary[stop]; ok {
			t.Errorf("stopword %q leaked into vocabulary", stop)
		}
	}
	if _, ok := v.Vocabulary["screen"]; !ok {
		t.Error("expected content word 'screen' in vocabulary")
	}
}

func TestTransformCounts(t *testing.T) {
	v := fitVectorizer([]string{"battery screen keyboard"}, 100)
	vec := v.Transform("battery battery screen trackpad")

	if got := vec[v.Vocabulary["battery"]]; got != 2 {
		t.Errorf("battery count = %v, want 2", got)
	}
	if got := vec[v.Vocabulary["screen"]]; got != 1 {
		t.Errorf("screen count = %v, want 1", got)
	}
	if got := vec[v.Vocabulary["keyboard"]]; got != 0 {
		t.Errorf("keyboard count = %v, want 0", got)
	}
	// Out-of-vocabulary terms are dropped, not appended.
	if len(vec) != v.Size() {
		t.Errorf("vector length %d != vocabulary size %d", len(vec), v.Size())
	}
}

func TestTokenizeLowercasesAndFilters(t *testing.T) {
	got := tokenize("The SCREEN broke! A 10/10 disaster...")
	want := []string{"screen", "broke", "10", "10", "disaster"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize = %v, want %v", got, want)
	}
}
