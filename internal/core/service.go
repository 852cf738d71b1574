package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/utils"
)

// DetectionService is the core service for phishing prediction and deep
// analysis. It is safe for concurrent use; all its state is read-only after
// construction.
type DetectionService struct {
	classifier      TextClassifier
	explainer       Explainer
	cache           AnalysisCache
	logger          *zap.Logger
	textProcessor   *utils.TextProcessor
	cacheEnabled    bool
	cacheTTL        time.Duration
	analysisTimeout time.Duration
	maxEmailSize    int
}

// NewDetectionService creates a new detection service
func NewDetectionService(
	classifier TextClassifier,
	explainer Explainer,
	cache AnalysisCache,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	cacheEnabled bool,
	cacheTTL time.Duration,
	analysisTimeout time.Duration,
	maxEmailSize int,
) *DetectionService {
	return &DetectionService{
		classifier:      classifier,
		explainer:       explainer,
		cache:           cache,
		logger:          logger,
		textProcessor:   textProcessor,
		cacheEnabled:    cacheEnabled,
		cacheTTL:        cacheTTL,
		analysisTimeout: analysisTimeout,
		maxEmailSize:    maxEmailSize,
	}
}

// ModelLoaded reports whether the classifier artifacts are available.
func (s *DetectionService) ModelLoaded() bool {
	return s.classifier.Loaded()
}

// Predict classifies an email body as phishing or safe. It fails with
// ErrEmptyEmail for empty or whitespace-only text and with
// ErrModelUnavailable when the model artifacts were never loaded.
func (s *DetectionService) Predict(ctx context.Context, emailText string) (*Verdict, error) {
	if strings.TrimSpace(emailText) == "" {
		return nil, ErrEmptyEmail
	}

	classification, err := s.classifier.Classify(emailText)
	if err != nil {
		return nil, err
	}

	isPhishing := classification.Label == LabelPhishing
	message := MessageSafe
	if isPhishing {
		message = MessagePhishing
	}

	verdict := &Verdict{
		Label:      classification.Label,
		IsPhishing: isPhishing,
		Message:    message,
		Confidence: ConfidenceScores{
			Safe:     roundPercent(classification.Probabilities[0]),
			Phishing: roundPercent(classification.Probabilities[1]),
		},
	}

	s.logger.Debug("Email classified",
		zap.Int("label", verdict.Label),
		zap.Bool("is_phishing", verdict.IsPhishing),
		zap.Float64("confidence_phishing", verdict.Confidence.Phishing))

	return verdict, nil
}

// Analyze requests a deep analysis of an email from the external reasoning
// service, using the caller-supplied prior verdict as context. The prior
// verdict is trusted as given and never recomputed. Any upstream failure is
// surfaced as *UpstreamError; there is no retry.
func (s *DetectionService) Analyze(ctx context.Context, emailText string, prior *PriorVerdict) (*AnalysisResult, error) {
	if strings.TrimSpace(emailText) == "" {
		return nil, ErrEmptyEmail
	}

	key := analysisKey(emailText, prior)

	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Analysis cache hit", zap.String("key", key))
			return &AnalysisResult{
				Analysis:  entry.Analysis,
				ModelUsed: entry.ModelUsed,
			}, nil
		}
	}

	// Bound the email text embedded in the prompt so a huge body cannot
	// blow past the reasoning service's input limits.
	bounded := s.textProcessor.ProcessText(emailText, s.maxEmailSize)
	prompt := BuildAnalysisPrompt(bounded, prior)

	ctx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	analysis, err := s.explainer.Explain(ctx, prompt)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	if strings.TrimSpace(analysis) == "" {
		return nil, &UpstreamError{Err: errors.New("empty response from reasoning service")}
	}

	result := &AnalysisResult{
		Analysis:  analysis,
		ModelUsed: s.explainer.ModelName(),
	}

	if s.cacheEnabled {
		now := time.Now()
		entry := &AnalysisCacheEntry{
			Key:       key,
			Analysis:  result.Analysis,
			ModelUsed: result.ModelUsed,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update analysis cache", zap.Error(err))
		}
	}

	return result, nil
}

// roundPercent converts a probability to a percentage rounded to two
// decimal places.
func roundPercent(p float64) float64 {
	return math.Round(p*100*100) / 100
}

// analysisKey derives a stable digest of the email text and prior verdict.
func analysisKey(emailText string, prior *PriorVerdict) string {
	h := sha256.New()
	h.Write([]byte(emailText))
	fmt.Fprintf(h, "|%t|%g|%g", prior.IsPhishing, prior.Confidence.Phishing, prior.Confidence.Safe)
	return hex.EncodeToString(h.Sum(nil))
}
