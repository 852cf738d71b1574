package core

import (
	"context"
)

// TextClassifier defines the interface for the local phishing classifier
type TextClassifier interface {
	// Classify maps raw email text to a label and per-class probabilities
	Classify(text string) (*Classification, error)

	// Loaded reports whether the model artifacts are available
	Loaded() bool
}

// Explainer defines the interface for the external reasoning service
type Explainer interface {
	// Explain sends a prompt and returns the generated analysis text
	Explain(ctx context.Context, prompt string) (string, error)

	// ModelName returns the identifier of the reasoning model in use
	ModelName() string
}

// AnalysisCache defines the interface for caching deep analysis results
type AnalysisCache interface {
	// Get retrieves a cached analysis by digest key
	Get(ctx context.Context, key string) (*AnalysisCacheEntry, error)

	// Set stores an analysis entry
	Set(ctx context.Context, entry *AnalysisCacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
