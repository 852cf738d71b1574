package core

import (
	"time"
)

// Classification labels produced by the text classifier.
const (
	LabelSafe     = 0
	LabelPhishing = 1
)

// Result messages returned with every verdict. The two-way mapping is total;
// there is no default branch.
const (
	MessagePhishing = "⚠️ WARNING: PHISHING DETECTED!"
	MessageSafe     = "✅ Email is Safe."
)

// Classification is the raw output of the text classifier: the predicted
// label and the full probability distribution over {safe, phishing}.
type Classification struct {
	Label         int
	Probabilities [2]float64
}

// ConfidenceScores holds the per-class confidence as percentages in [0, 100].
// Safe + Phishing sums to 100 within floating rounding.
type ConfidenceScores struct {
	Safe     float64 `json:"safe"`
	Phishing float64 `json:"phishing"`
}

// Verdict is the structured result of one prediction. It is created once per
// request, never mutated, and never persisted.
type Verdict struct {
	Label      int
	IsPhishing bool
	Message    string
	Confidence ConfidenceScores
}

// PriorVerdict is the caller-supplied verdict a deep analysis is based on.
// It is trusted as given and never re-checked against the classifier; the
// analysis is advisory text, not a second authoritative classification.
type PriorVerdict struct {
	IsPhishing bool             `json:"is_phishing"`
	Confidence ConfidenceScores `json:"confidence"`
}

// AnalysisResult is the outcome of one deep analysis call.
type AnalysisResult struct {
	Analysis  string
	ModelUsed string
}

// AnalysisCacheEntry is a cached deep analysis keyed by a digest of the
// email text and the prior verdict.
type AnalysisCacheEntry struct {
	Key       string
	Analysis  string
	ModelUsed string
	CreatedAt time.Time
	ExpiresAt time.Time
}
