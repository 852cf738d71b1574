package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/config"
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/factory"
	"github.com/mikey/phishing-detector/internal/logging"
	"github.com/mikey/phishing-detector/internal/mailtext"
	"github.com/mikey/phishing-detector/internal/ml"
	"github.com/mikey/phishing-detector/internal/utils"
	"github.com/mikey/phishing-detector/internal/whitelist"
)

var (
	// Model artifact flags
	modelDir = flag.String("model-dir", "./models", "Directory holding the vectorizer and classifier artifacts")

	// LLM provider flags
	provider    = flag.String("provider", "openai", "LLM provider (openai, gemini, bedrock)")
	maxTokens   = flag.Int("max-tokens", 500, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.7, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 1.0, "Top-p for LLM generation")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Detection flags
	trustedDomains = flag.String("trusted-domains", "", "Comma-separated list of trusted sender domains")
	deepAnalysis   = flag.Bool("analyze", false, "Request an LLM deep analysis after classification")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.NewFromFile(*configFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	// Load the model artifacts
	state := ml.Load(cfg.GetModel().Dir, logger)
	classifier := ml.NewClassifier(state, logger)

	// Read the email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
	} else {
		emailReader = os.Stdin
	}

	raw, err := io.ReadAll(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	from, subject, body := parseEmail(raw, logger)

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", from)
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Body length: %d bytes\n", len(body))

	// A trusted sender domain skips classification entirely
	checker := whitelist.NewChecker(splitDomains(*trustedDomains), logger)
	if checker.IsTrusted(from) {
		fmt.Printf("\n=== Results ===\n")
		fmt.Printf("Sender domain is trusted, skipping classification\n")
		fmt.Printf("Message: %s\n", core.MessageSafe)
		return
	}

	// Only wire an explainer when a deep analysis was requested
	var explainer core.Explainer
	if *deepAnalysis {
		explainerFactory := factory.NewExplainerFactory(cfg, logger)
		explainer, err = explainerFactory.CreateExplainer()
		if err != nil {
			logger.Fatal("Failed to create explainer", zap.Error(err))
		}
	}

	analysisTimeout, err := cfg.GetDuration("analysis.timeout")
	if err != nil {
		logger.Fatal("Invalid analysis timeout", zap.Error(err))
	}

	service := core.NewDetectionService(
		classifier,
		explainer,
		nil, // No cache for the CLI
		logger,
		utils.NewTextProcessor(logger),
		false,
		time.Duration(0),
		analysisTimeout,
		cfg.GetAnalysis().MaxEmailSize,
	)

	emailText := body
	if subject != "" {
		emailText = subject + "\n\n" + body
	}

	ctx := context.Background()

	verdict, err := service.Predict(ctx, emailText)
	if err != nil {
		logger.Fatal("Failed to classify email", zap.Error(err))
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Prediction: %d\n", verdict.Label)
	fmt.Printf("Is phishing: %t\n", verdict.IsPhishing)
	fmt.Printf("Message: %s\n", verdict.Message)
	fmt.Printf("Confidence: %.2f%% phishing, %.2f%% safe\n",
		verdict.Confidence.Phishing, verdict.Confidence.Safe)

	if !*deepAnalysis {
		return
	}

	fmt.Printf("\n=== Deep Analysis ===\n")
	fmt.Printf("Requesting analysis from %s...\n", explainer.ModelName())

	result, err := service.Analyze(ctx, emailText, &core.PriorVerdict{
		IsPhishing: verdict.IsPhishing,
		Confidence: verdict.Confidence,
	})
	if err != nil {
		logger.Fatal("Deep analysis failed", zap.Error(err))
	}

	fmt.Printf("\n%s\n\nModel used: %s\n", result.Analysis, result.ModelUsed)

	if closer, ok := explainer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close explainer client", zap.Error(err))
		}
	}
}

// parseEmail extracts sender, subject and text body from raw input. Input
// that is not a parseable RFC 822 message is treated as a bare email body.
func parseEmail(raw []byte, logger *zap.Logger) (from, subject, body string) {
	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		logger.Debug("Input is not an RFC 822 message, treating as bare body", zap.Error(err))
		return "", "", string(raw)
	}

	body, err = mailtext.Extract(msg)
	if err != nil {
		logger.Fatal("Failed to extract email text", zap.Error(err))
	}

	return msg.Header.Get("From"), msg.Header.Get("Subject"), body
}

func splitDomains(domains string) []string {
	if domains == "" {
		return nil
	}
	parts := strings.Split(domains, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("model.dir", *modelDir)
	v.Set("llm.provider", *provider)

	switch *provider {
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
	}

	return config.NewFromViper(v)
}
