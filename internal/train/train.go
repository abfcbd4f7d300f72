// Package train fits the review-text sentiment classifier.
//
// The trainer consumes the scored review set, splits it into reproducible
// train/evaluation partitions, fits a document-frequency-capped bag-of-words
// vectorizer on the training partition, and trains a multinomial logistic
// regression mapping count vectors to sentiment labels. The fitted
// vectorizer and classifier are persisted as a paired artifact set that must
// be loaded together.
package train

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/reviewlens/reviewlens/internal/database"
)

// Training constants. Fixed, not configuration: the split seed makes the
// partition reproducible for the same input ordering and size, and the
// feature cap bounds the vocabulary.
const (
	maxFeatures  = 5000
	splitSeed    = 42
	testFraction = 0.2
)

// ErrInsufficientData means training received zero usable rows or fewer than
// two distinct labels. A classifier cannot be trained on one class, and a
// degenerate model must never be silently persisted, so this propagates.
var ErrInsufficientData = errors.New("train: need at least two distinct labels and one usable row")

// Example is one text/label training pair.
type Example struct {
	Text  string
	Label string
}

// ClassMetrics holds evaluation metrics for one class.
type ClassMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation holds held-out evaluation results. It is a diagnostic side
// channel: surfaced and logged, not consumed by downstream artifacts.
type Evaluation struct {
	Accuracy  float64
	TrainSize int
	TestSize  int
	Classes   []ClassMetrics
}

// Train fits the vectorizer and classifier on the scored review set and
// evaluates on a held-out partition. Rows missing text or label are
// discarded first; ErrInsufficientData propagates if what remains cannot
// train a multi-class model.
func Train(reviews []database.Review) (*Artifacts, *Evaluation, error) {
	examples := usableExamples(reviews)
	if err := checkTrainable(examples); err != nil {
		return nil, nil, err
	}

	trainSet, testSet := split(examples, testFraction, splitSeed)

	trainDocs := make([]string, len(trainSet))
	trainLabels := make([]string, len(trainSet))
	for i, ex := range trainSet {
		trainDocs[i] = ex.Text
		trainLabels[i] = ex.Label
	}

	vectorizer := fitVectorizer(trainDocs, maxFeatures)
	classes := distinctLabels(trainSet)
	if len(classes) < 2 {
		// The shuffle can strand a tiny class entirely in the test partition.
		return nil, nil, ErrInsufficientData
	}
	model := fitModel(vectorizer.TransformAll(trainDocs), trainLabels, classes)

	artifacts := newArtifacts(vectorizer, model)
	eval := evaluate(artifacts, testSet)
	eval.TrainSize = len(trainSet)

	return artifacts, eval, nil
}

// usableExamples keeps rows with both text and a derived label.
func usableExamples(reviews []database.Review) []Example {
	var out []Example
	for _, r := range reviews {
		if r.Text == "" || r.SentimentLabel == nil || *r.SentimentLabel == "" {
			continue
		}
		out = append(out, Example{Text: r.Text, Label: *r.SentimentLabel})
	}
	return out
}

func checkTrainable(examples []Example) error {
	if len(examples) == 0 {
		return ErrInsufficientData
	}
	if len(distinctLabels(examples)) < 2 {
		return ErrInsufficientData
	}
	return nil
}

// distinctLabels returns the sorted distinct labels in examples.
func distinctLabels(examples []Example) []string {
	seen := make(map[string]struct{})
	for _, ex := range examples {
		seen[ex.Label] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// split shuffles a copy of examples with the fixed seed and cuts off the
// test fraction. Same seed, ordering, and size produce the same partition.
func split(examples []Example, testFrac float64, seed int64) (trainSet, testSet []Example) {
	shuffled := append([]Example(nil), examples...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	testSize := int(math.Round(testFrac * float64(len(shuffled))))
	if testSize >= len(shuffled) {
		testSize = len(shuffled) - 1
	}
	trainSize := len(shuffled) - testSize

	return shuffled[:trainSize], shuffled[trainSize:]
}

// evaluate computes accuracy and per-class precision/recall/F1 on testSet.
func evaluate(artifacts *Artifacts, testSet []Example) *Evaluation {
	eval := &Evaluation{TestSize: len(testSet)}
	if len(testSet) == 0 {
		return eval
	}

	texts := make([]string, len(testSet))
	for i, ex := range testSet {
		texts[i] = ex.Text
	}
	predicted := artifacts.Predict(texts)

	correct := 0
	truePos := make(map[string]int)
	falsePos := make(map[string]int)
	falseNeg := make(map[string]int)
	support := make(map[string]int)

	for i, ex := range testSet {
		support[ex.Label]++
		if predicted[i] == ex.Label {
			correct++
			truePos[ex.Label]++
		} else {
			falsePos[predicted[i]]++
			falseNeg[ex.Label]++
		}
	}
	eval.Accuracy = float64(correct) / float64(len(testSet))

	labels := make([]string, 0, len(support))
	for l := range support {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	for _, label := range labels {
		tp := float64(truePos[label])
		precision := safeDiv(tp, tp+float64(falsePos[label]))
		recall := safeDiv(tp, tp+float64(falseNeg[label]))
		eval.Classes = append(eval.Classes, ClassMetrics{
			Label:     label,
			Precision: precision,
			Recall:    recall,
			F1:        safeDiv(2*precision*recall, precision+recall),
			Support:   support[label],
		})
	}

	return eval
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
