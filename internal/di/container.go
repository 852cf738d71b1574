package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/factory"
	"github.com/mikey/phishing-detector/internal/handler"
	"github.com/mikey/phishing-detector/internal/logging"
	"github.com/mikey/phishing-detector/internal/metrics"
	"github.com/mikey/phishing-detector/internal/ml"
	"github.com/mikey/phishing-detector/internal/ports"
	"github.com/mikey/phishing-detector/internal/server"
	"github.com/mikey/phishing-detector/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewExplainerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register model state, loaded once before any request is served
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *ml.State {
		return ml.Load(cfg.GetModel().Dir, logger)
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(state *ml.State, logger *zap.Logger) core.TextClassifier {
		return ml.NewClassifier(state, logger)
	}); err != nil {
		return nil, err
	}

	// Register explainer
	if err := container.Provide(func(f *factory.ExplainerFactory) (core.Explainer, error) {
		return f.CreateExplainer()
	}); err != nil {
		return nil, err
	}

	// Register analysis cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.AnalysisCache, error) {
		return f.CreateAnalysisCache()
	}); err != nil {
		return nil, err
	}

	// Register detection service
	if err := container.Provide(func(
		classifier core.TextClassifier,
		explainer core.Explainer,
		cache core.AnalysisCache,
		cacheFactory *factory.CacheFactory,
		cfg *config.Config,
		logger *zap.Logger,
		textProcessor *utils.TextProcessor,
	) (*core.DetectionService, error) {
		cacheTTL, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		analysisTimeout, err := cfg.GetDuration("analysis.timeout")
		if err != nil {
			return nil, err
		}
		return core.NewDetectionService(
			classifier,
			explainer,
			cache,
			logger,
			textProcessor,
			cacheFactory.IsCacheEnabled(),
			cacheTTL,
			analysisTimeout,
			cfg.GetAnalysis().MaxEmailSize,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register HTTP handler and metrics
	if err := container.Provide(handler.NewDetectionHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(metrics.New); err != nil {
		return nil, err
	}

	// Register API server
	if err := container.Provide(func(
		cfg *config.Config,
		detectionHandler *handler.DetectionHandler,
		m *metrics.Metrics,
		logger *zap.Logger,
	) (ports.APIServer, error) {
		return server.New(cfg, detectionHandler, m, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
