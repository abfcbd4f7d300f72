package train

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/reviewlens/reviewlens/internal/database"
)

// labeled builds a review carrying a text and a derived label.
func labeled(text, label string) database.Review {
	l := label
	return database.Review{Text: text, SentimentLabel: &l}
}

// trainingSet is a small, strongly separable corpus.
func trainingSet() []database.Review {
	return []database.Review{
		labeled("amazing product excellent quality love it", "Positive"),
		labeled("excellent build amazing screen love the design", "Positive"),
		labeled("love this amazing excellent purchase", "Positive"),
		labeled("excellent amazing works love it daily", "Positive"),
		labeled("amazing excellent love the battery", "Positive"),
		labeled("love it amazing excellent value", "Positive"),
		labeled("terrible awful garbage broke immediately", "Negative"),
		labeled("awful terrible garbage waste of money", "Negative"),
		labeled("garbage terrible awful broke fast", "Negative"),
		labeled("terrible garbage awful quality broke", "Negative"),
		labeled("awful garbage terrible broke twice", "Negative"),
		labeled("broke terrible awful garbage refund", "Negative"),
	}
}

func TestTrainAndPredict(t *testing.T) {
	artifacts, eval, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifacts == nil || eval == nil {
		t.Fatal("expected artifacts and evaluation")
	}

	predictions := artifacts.Predict([]string{
		"amazing excellent love",
		"terrible awful garbage",
	})
	if predictions[0] != "Positive" {
		t.Errorf("expected Positive, got %s", predictions[0])
	}
	if predictions[1] != "Negative" {
		t.Errorf("expected Negative, got %s", predictions[1])
	}
}

func TestTrainSplitSizes(t *testing.T) {
	_, eval, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 12 rows at 20% held out: 10 train, 2 test.
	if eval.TrainSize != 10 || eval.TestSize != 2 {
		t.Errorf("split = %d/%d, want 10/2", eval.TrainSize, eval.TestSize)
	}
	if eval.Accuracy < 0 || eval.Accuracy > 1 {
		t.Errorf("accuracy %v out of [0, 1]", eval.Accuracy)
	}
}

func TestTrainDeterministic(t *testing.T) {
	first, firstEval, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, secondEval, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if firstEval.Accuracy != secondEval.Accuracy {
		t.Errorf("accuracy differs across identical runs: %v vs %v", firstEval.Accuracy, secondEval.Accuracy)
	}
	if first.Fingerprint != second.Fingerprint {
		t.Errorf("vocabulary fingerprint differs: %s vs %s", first.Fingerprint, second.Fingerprint)
	}
	if !reflect.DeepEqual(first.Model.Weights, second.Model.Weights) {
		t.Error("model weights differ across identical runs")
	}
}

func TestSplitReproducible(t *testing.T) {
	examples := usableExamples(trainingSet())

	train1, test1 := split(examples, testFraction, splitSeed)
	train2, test2 := split(examples, testFraction, splitSeed)

	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Error("same seed produced different partitions")
	}
	if len(train1)+len(test1) != len(examples) {
		t.Errorf("partition sizes %d+%d != %d", len(train1), len(test1), len(examples))
	}
}

func TestTrainInsufficientData(t *testing.T) {
	cases := map[string][]database.Review{
		"empty":         {},
		"no labels":     {{Text: "unlabeled review"}},
		"single label":  {labeled("great", "Positive"), labeled("amazing", "Positive"), labeled("love", "Positive")},
		"blank text":    {labeled("", "Positive"), labeled("", "Negative")},
	}
	for name, reviews := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Train(reviews)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("expected ErrInsufficientData, got %v", err)
			}
		})
	}
}

func TestTrainFailureLeavesNoArtifacts(t *testing.T) {
	dir := t.TempDir()

	oneClass := []database.Review{
		labeled("great", "Positive"),
		labeled("amazing", "Positive"),
	}
	artifacts, _, err := Train(oneClass)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if artifacts != nil {
		t.Fatal("expected nil artifacts on failure")
	}

	// Nothing was persisted.
	if _, err := os.Stat(filepath.Join(dir, ModelFile)); !os.IsNotExist(err) {
		t.Error("model file should not exist after failed training")
	}
	if _, err := os.Stat(filepath.Join(dir, VectorizerFile)); !os.IsNotExist(err) {
		t.Error("vectorizer file should not exist after failed training")
	}
}

func TestEvaluationMetrics(t *testing.T) {
	artifacts, _, err := Train(trainingSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Evaluate against a hand-built test set where predictions are known.
	eval := evaluate(artifacts, []Example{
		{Text: "amazing excellent love", Label: "Positive"},
		{Text: "terrible awful garbage", Label: "Negative"},
	})
	if eval.Accuracy != 1.0 {
		t.Errorf("accuracy = %v, want 1.0", eval.Accuracy)
	}
	for _, c := range eval.Classes {
		if c.Precision != 1.0 || c.Recall != 1.0 || c.F1 != 1.0 {
			t.Errorf("class %s: %+v, want perfect scores", c.Label, c)
		}
		if c.Support != 1 {
			t.Errorf("class %s support = %d, want 1", c.Label, c.Support)
		}
	}
}
