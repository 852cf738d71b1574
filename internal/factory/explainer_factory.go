package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/adapters/bedrock"
	"github.com/mikey/phishing-detector/internal/adapters/gemini"
	"github.com/mikey/phishing-detector/internal/adapters/openai"
	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
)

// ExplainerFactory creates explainer clients
type ExplainerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExplainerFactory creates a new explainer factory
func NewExplainerFactory(cfg *config.Config, logger *zap.Logger) *ExplainerFactory {
	return &ExplainerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateExplainer creates a new explainer based on the configured provider
func (f *ExplainerFactory) CreateExplainer() (core.Explainer, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger)
		return factory.CreateExplainer()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger)
		return factory.CreateExplainer()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger)
		return factory.CreateExplainer()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
