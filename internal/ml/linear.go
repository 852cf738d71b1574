package ml

import (
	"math"
)

// LogisticModel is a binary logistic regression classifier fitted by the
// offline training pipeline. Logistic regression is probability-calibrated
// by construction, so the label can be computed strictly as the argmax of
// the probability vector and the two can never disagree.
type LogisticModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// PredictProba returns the probability distribution over {safe, phishing}
// for the given feature vector. The two values always sum to 1.
func (m *LogisticModel) PredictProba(features []float64) [2]float64 {
	z := m.Intercept
	n := len(m.Weights)
	if len(features) < n {
		n = len(features)
	}
	for i := 0; i < n; i++ {
		z += m.Weights[i] * features[i]
	}

	p := 1 / (1 + math.Exp(-z))
	return [2]float64{1 - p, p}
}
