package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`

	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-sonnet-latest"`
	AnthropicBaseURL string `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com"`

	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`

	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`
	ProviderRetries int           `envconfig:"PROVIDER_RETRIES" default:"2"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// NewProviders builds the three clients in fixed provider order. A client
// without an API key is still returned and fails each query with ErrNotConfigured.
func NewProviders(config Config) [3]Provider {
	return [3]Provider{
		NewOpenAIClient(config.OpenAIAPIKey, config.OpenAIModel, config.OpenAIBaseURL, config.ProviderTimeout, config.ProviderRetries),
		NewAnthropicClient(config.AnthropicAPIKey, config.AnthropicModel, config.AnthropicBaseURL, config.ProviderTimeout, config.ProviderRetries),
		NewGeminiClient(config.GeminiAPIKey, config.GeminiModel, config.GeminiBaseURL, config.ProviderTimeout, config.ProviderRetries),
	}
}
