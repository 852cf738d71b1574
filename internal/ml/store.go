package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Artifact file names expected in the model directory, as written by the
// offline training pipeline.
const (
	VectorizerFile = "tfidf_vectorizer.json"
	ClassifierFile = "classifier.json"
)

// State bundles the loaded vectorizer and classifier artifacts. It is built
// once before any request is served and is read-only afterwards, so
// concurrent readers need no locking.
type State struct {
	Vectorizer *Vectorizer
	Model      *LogisticModel
}

// Loaded reports whether both artifacts are available.
func (s *State) Loaded() bool {
	return s.Vectorizer != nil && s.Model != nil
}

// Load reads the vectorizer and classifier artifacts from dir. On any read
// or decode failure it logs a warning and returns a degraded State with
// empty handles; the condition is permanent until the process restarts and
// artifacts are redeployed.
func Load(dir string, logger *zap.Logger) *State {
	var vectorizer Vectorizer
	if err := readArtifact(filepath.Join(dir, VectorizerFile), &vectorizer); err != nil {
		logger.Warn("Model artifacts not available, serving degraded",
			zap.String("dir", dir),
			zap.Error(err))
		return &State{}
	}

	var model LogisticModel
	if err := readArtifact(filepath.Join(dir, ClassifierFile), &model); err != nil {
		logger.Warn("Model artifacts not available, serving degraded",
			zap.String("dir", dir),
			zap.Error(err))
		return &State{}
	}

	if len(model.Weights) != len(vectorizer.IDF) {
		logger.Warn("Model artifacts disagree on feature count, serving degraded",
			zap.Int("classifier_features", len(model.Weights)),
			zap.Int("vectorizer_features", len(vectorizer.IDF)))
		return &State{}
	}

	logger.Info("Model and vectorizer loaded successfully",
		zap.String("dir", dir),
		zap.Int("features", len(vectorizer.IDF)),
		zap.Int("vocabulary_size", len(vectorizer.Vocabulary)))

	return &State{
		Vectorizer: &vectorizer,
		Model:      &model,
	}
}

func readArtifact(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}
