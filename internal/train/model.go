package train

import "math"

// Optimizer constants. The iteration cap bounds training time on any corpus;
// the remaining values are conventional full-batch gradient descent settings.
const (
	maxIterations = 200
	learningRate  = 0.1
	l2Penalty     = 1e-4
)

// LogisticRegression is a multinomial (softmax) linear classifier. Weights
// are zero-initialized and updated by full-batch gradient descent, so a fit
// on the same matrix and labels always produces the same model.
type LogisticRegression struct {
	// Classes holds the label for each weight row, sorted alphabetically.
	Classes []string `json:"classes"`
	// Weights is one row of feature weights per class.
	Weights [][]float64 `json:"weights"`
	// Bias is the intercept per class.
	Bias []float64 `json:"bias"`
}

// fitModel trains a softmax classifier on the count matrix x with string
// labels y. Callers guarantee len(x) == len(y) > 0 and at least two distinct
// labels.
func fitModel(x [][]float64, y []string, classes []string) *LogisticRegression {
	nSamples := len(x)
	nFeatures := 0
	if nSamples > 0 {
		nFeatures = len(x[0])
	}
	nClasses := len(classes)

	classIdx := make(map[string]int, nClasses)
	for i, c := range classes {
		classIdx[c] = i
	}
	target := make([]int, nSamples)
	for i, label := range y {
		target[i] = classIdx[label]
	}

	m := &LogisticRegression{
		Classes: classes,
		Weights: make([][]float64, nClasses),
		Bias:    make([]float64, nClasses),
	}
	for c := range m.Weights {
		m.Weights[c] = make([]float64, nFeatures)
	}

	gradW := make([][]float64, nClasses)
	for c := range gradW {
		gradW[c] = make([]float64, nFeatures)
	}
	gradB := make([]float64, nClasses)

	scale := 1.0 / float64(nSamples)

	for iter := 0; iter < maxIterations; iter++ {
		for c := range gradW {
			for f := range gradW[c] {
				gradW[c][f] = 0
			}
			gradB[c] = 0
		}

		for i, xi := range x {
			probs := m.softmax(xi)
			for c := range probs {
				diff := probs[c]
				if c == target[i] {
					diff -= 1
				}
				if diff == 0 {
					continue
				}
				row := gradW[c]
				for f, v := range xi {
					if v != 0 {
						row[f] += diff * v
					}
				}
				gradB[c] += diff
			}
		}

		for c := range m.Weights {
			row := m.Weights[c]
			grad := gradW[c]
			for f := range row {
				row[f] -= learningRate * (grad[f]*scale + l2Penalty*row[f])
			}
			m.Bias[c] -= learningRate * gradB[c] * scale
		}
	}

	return m
}

// softmax returns class probabilities for one sample.
func (m *LogisticRegression) softmax(xi []float64) []float64 {
	scores := m.scores(xi)
	maxScore := scoresMax(scores)

	var sum float64
	probs := make([]float64, len(scores))
	for c, s := range scores {
		probs[c] = math.Exp(s - maxScore)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs
}

// scores returns the raw linear score per class for one sample.
func (m *LogisticRegression) scores(xi []float64) []float64 {
	scores := make([]float64, len(m.Classes))
	for c, row := range m.Weights {
		s := m.Bias[c]
		for f, v := range xi {
			if v != 0 {
				s += row[f] * v
			}
		}
		scores[c] = s
	}
	return scores
}

func scoresMax(scores []float64) float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	return max
}

// PredictOne returns the class with the highest score for one vector.
// Score ties resolve to the alphabetically first class.
func (m *LogisticRegression) PredictOne(xi []float64) string {
	scores := m.scores(xi)
	best := 0
	for c := 1; c < len(scores); c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return m.Classes[best]
}

// Predict returns the predicted class per row of x.
func (m *LogisticRegression) Predict(x [][]float64) []string {
	out := make([]string, len(x))
	for i, xi := range x {
		out[i] = m.PredictOne(xi)
	}
	return out
}
