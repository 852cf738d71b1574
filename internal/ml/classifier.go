package ml

import (
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// Classifier adapts the loaded model artifacts to the core.TextClassifier
// port. Safe for concurrent use; the underlying State is never mutated.
type Classifier struct {
	state  *State
	logger *zap.Logger
}

// NewClassifier creates a classifier over the given model state
func NewClassifier(state *State, logger *zap.Logger) *Classifier {
	return &Classifier{
		state:  state,
		logger: logger,
	}
}

// Loaded reports whether the model artifacts are available
func (c *Classifier) Loaded() bool {
	return c.state.Loaded()
}

// Classify transforms text through the stored vectorizer and returns the
// predicted label with the full probability distribution. The label is the
// argmax of the unrounded probabilities.
func (c *Classifier) Classify(text string) (*core.Classification, error) {
	if !c.state.Loaded() {
		return nil, core.ErrModelUnavailable
	}

	features := c.state.Vectorizer.Transform(text)
	probabilities := c.state.Model.PredictProba(features)

	label := core.LabelSafe
	if probabilities[1] > probabilities[0] {
		label = core.LabelPhishing
	}

	return &core.Classification{
		Label:         label,
		Probabilities: probabilities,
	}, nil
}
