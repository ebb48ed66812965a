package connectors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"signaldesk/src/model"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-3-5-sonnet-latest"
	anthropicVersion        = "2023-06-01"
	anthropicMaxTokens      = 1024
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// AnthropicClient queries the messages API.
type AnthropicClient struct {
	apiKey    string
	modelName string
	http      *resty.Client
}

func NewAnthropicClient(apiKey, modelName, baseURL string, timeout time.Duration, retries int) *AnthropicClient {
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &AnthropicClient{
		apiKey:    apiKey,
		modelName: modelName,
		http:      newRestyClient(baseURL, defaultAnthropicBaseURL, timeout, retries),
	}
}

func (c *AnthropicClient) Name() model.ProviderName { return model.ProviderAnthropic }

func (c *AnthropicClient) Query(ctx context.Context, instrument, prompt string) (model.ProviderOpinion, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return model.EmptyOpinion(c.Name()), fmt.Errorf("%s: %w", c.Name(), ErrNotConfigured)
	}

	body := anthropicRequest{
		Model:     c.modelName,
		MaxTokens: anthropicMaxTokens,
		System:    prompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userMessage(instrument)}},
	}

	var out anthropicResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetBody(body).
		SetResult(&out).
		Post("/v1/messages")
	if err := checkResponse(string(c.Name()), resp, err); err != nil {
		return model.EmptyOpinion(c.Name()), err
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return ParseOpinion(c.Name(), text.String())
}
