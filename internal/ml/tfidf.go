package ml

import (
	"math"
	"strings"
	"unicode"
)

// Vectorizer applies a TF-IDF transform fitted by the offline training
// pipeline. The vocabulary and IDF weights are loaded from the exported
// artifact and never refitted at runtime; transforming through a freshly
// fitted vectorizer would silently produce meaningless predictions.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Lowercase  bool           `json:"lowercase"`
}

// Transform converts raw text into the dense feature vector the classifier
// was fitted on: term counts weighted by IDF, L2-normalized.
func (v *Vectorizer) Transform(text string) []float64 {
	if v.Lowercase {
		text = strings.ToLower(text)
	}

	features := make([]float64, len(v.IDF))
	for _, token := range tokenize(text) {
		idx, ok := v.Vocabulary[token]
		if !ok || idx < 0 || idx >= len(features) {
			continue
		}
		features[idx]++
	}

	var norm float64
	for i := range features {
		if features[i] == 0 {
			continue
		}
		features[i] *= v.IDF[i]
		norm += features[i] * features[i]
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range features {
			if features[i] != 0 {
				features[i] /= norm
			}
		}
	}

	return features
}

// tokenize splits text into word tokens of two or more alphanumeric
// characters, matching the tokenization used when the vocabulary was fitted.
func tokenize(text string) []string {
	tokens := make([]string, 0, 64)
	start := -1

	flush := func(end int) {
		if start >= 0 && end-start >= 2 {
			tokens = append(tokens, text[start:end])
		}
		start = -1
	}

	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}
