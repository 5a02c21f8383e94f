package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/linkguardian/linkguardian/internal/adapters/assistant/bedrock"
	"github.com/linkguardian/linkguardian/internal/adapters/assistant/gemini"
	"github.com/linkguardian/linkguardian/internal/adapters/assistant/openai"
	"github.com/linkguardian/linkguardian/internal/config"
	"github.com/linkguardian/linkguardian/internal/core"
)

// AssistantFactory creates assistant clients
type AssistantFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAssistantFactory creates a new assistant factory
func NewAssistantFactory(cfg *config.Config, logger *zap.Logger) *AssistantFactory {
	return &AssistantFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAssistantClient creates a new assistant client based on the configuration
func (f *AssistantFactory) CreateAssistantClient() (core.AssistantClient, error) {
	provider := f.cfg.GetAssistant().Provider

	switch provider {
	case "gemini":
		c := f.cfg.GetGemini()
		return gemini.NewClient(c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, f.logger)
	case "openai":
		c := f.cfg.GetOpenAI()
		return openai.NewClient(c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, f.logger), nil
	case "bedrock":
		c := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(c.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		runtime := bedrockruntime.NewFromConfig(awsCfg)
		return bedrock.NewClient(runtime, c.ModelID, c.MaxTokens, c.Temperature, c.TopP, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported assistant provider: %s", provider)
	}
}
