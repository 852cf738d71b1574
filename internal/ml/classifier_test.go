package ml

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

func testState() *State {
	return &State{
		Vectorizer: &Vectorizer{
			Vocabulary: map[string]int{
				"verify":  0,
				"account": 1,
				"urgent":  2,
				"meeting": 3,
				"notes":   4,
			},
			IDF:       []float64{1.5, 1.2, 2.0, 1.0, 1.1},
			Lowercase: true,
		},
		Model: &LogisticModel{
			Weights:   []float64{3.0, 2.5, 4.0, -2.0, -1.5},
			Intercept: -1.0,
		},
	}
}

func TestVectorizerTransform(t *testing.T) {
	v := &Vectorizer{
		Vocabulary: map[string]int{"verify": 0, "account": 1},
		IDF:        []float64{2.0, 1.0},
		Lowercase:  true,
	}

	features := v.Transform("Verify your ACCOUNT, verify now!")

	// verify appears twice, account once; weighted then L2-normalized
	norm := math.Sqrt(4*4.0 + 1*1.0)
	if math.Abs(features[0]-4.0/norm) > 1e-9 {
		t.Errorf("features[0] = %v, want %v", features[0], 4.0/norm)
	}
	if math.Abs(features[1]-1.0/norm) > 1e-9 {
		t.Errorf("features[1] = %v, want %v", features[1], 1.0/norm)
	}

	var length float64
	for _, f := range features {
		length += f * f
	}
	if math.Abs(length-1.0) > 1e-9 {
		t.Errorf("transformed vector is not L2-normalized, squared length = %v", length)
	}
}

func TestVectorizerTransformUnknownTokens(t *testing.T) {
	v := &Vectorizer{
		Vocabulary: map[string]int{"verify": 0},
		IDF:        []float64{2.0},
		Lowercase:  true,
	}

	features := v.Transform("completely unrelated words")
	for i, f := range features {
		if f != 0 {
			t.Errorf("features[%d] = %v, want 0 for out-of-vocabulary text", i, f)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "punctuation split", text: "verify, your account!", want: []string{"verify", "your", "account"}},
		{name: "single letters dropped", text: "a I at", want: []string{"at"}},
		{name: "digits kept", text: "win $1000 now", want: []string{"win", "1000", "now"}},
		{name: "empty", text: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLogisticModelProbabilitiesSumToOne(t *testing.T) {
	model := &LogisticModel{Weights: []float64{1.0, -2.0, 0.5}, Intercept: 0.3}

	inputs := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0.2, 0.9, 0.1},
		{-1, 4, 2},
	}
	for _, features := range inputs {
		probs := model.PredictProba(features)
		sum := probs[0] + probs[1]
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("PredictProba(%v) sums to %v, want 1", features, sum)
		}
		if probs[0] < 0 || probs[0] > 1 || probs[1] < 0 || probs[1] > 1 {
			t.Errorf("PredictProba(%v) = %v, values outside [0, 1]", features, probs)
		}
	}
}

func TestClassifierLabelIsArgmax(t *testing.T) {
	classifier := NewClassifier(testState(), zap.NewNop())

	tests := []string{
		"URGENT: verify your account now",
		"meeting notes attached",
		"verify account",
		"meeting",
	}
	for _, text := range tests {
		c, err := classifier.Classify(text)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", text, err)
		}

		wantLabel := core.LabelSafe
		if c.Probabilities[1] > c.Probabilities[0] {
			wantLabel = core.LabelPhishing
		}
		if c.Label != wantLabel {
			t.Errorf("Classify(%q) label = %d, but argmax of %v is %d", text, c.Label, c.Probabilities, wantLabel)
		}

		if math.Abs(c.Probabilities[0]+c.Probabilities[1]-1.0) > 1e-9 {
			t.Errorf("Classify(%q) probabilities %v do not sum to 1", text, c.Probabilities)
		}
	}
}

func TestClassifierPhishingSignal(t *testing.T) {
	classifier := NewClassifier(testState(), zap.NewNop())

	phishy, err := classifier.Classify("URGENT: verify your account")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	safe, err := classifier.Classify("meeting notes")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if phishy.Label != core.LabelPhishing {
		t.Errorf("phishing-worded email classified as %d", phishy.Label)
	}
	if safe.Label != core.LabelSafe {
		t.Errorf("safe-worded email classified as %d", safe.Label)
	}
	if phishy.Probabilities[1] <= safe.Probabilities[1] {
		t.Errorf("phishing probability not higher for phishing-worded email: %v vs %v",
			phishy.Probabilities[1], safe.Probabilities[1])
	}
}

func TestClassifierModelUnavailable(t *testing.T) {
	classifier := NewClassifier(&State{}, zap.NewNop())

	if classifier.Loaded() {
		t.Error("Loaded() = true for empty state")
	}

	_, err := classifier.Classify("anything")
	if !errors.Is(err, core.ErrModelUnavailable) {
		t.Fatalf("Classify() error = %v, want ErrModelUnavailable", err)
	}
}
