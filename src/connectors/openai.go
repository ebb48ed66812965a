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
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o"
)

type openAIChatRequest struct {
	Model          string              `json:"model"`
	Messages       []openAIChatMessage `json:"messages"`
	ResponseFormat *openAIFormat       `json:"response_format,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient queries the chat completions API in JSON mode.
type OpenAIClient struct {
	apiKey    string
	modelName string
	http      *resty.Client
}

func NewOpenAIClient(apiKey, modelName, baseURL string, timeout time.Duration, retries int) *OpenAIClient {
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &OpenAIClient{
		apiKey:    apiKey,
		modelName: modelName,
		http:      newRestyClient(baseURL, defaultOpenAIBaseURL, timeout, retries),
	}
}

func (c *OpenAIClient) Name() model.ProviderName { return model.ProviderOpenAI }

func (c *OpenAIClient) Query(ctx context.Context, instrument, prompt string) (model.ProviderOpinion, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return model.EmptyOpinion(c.Name()), fmt.Errorf("%s: %w", c.Name(), ErrNotConfigured)
	}

	body := openAIChatRequest{
		Model: c.modelName,
		Messages: []openAIChatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: userMessage(instrument)},
		},
		ResponseFormat: &openAIFormat{Type: "json_object"},
	}

	var out openAIChatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err := checkResponse(string(c.Name()), resp, err); err != nil {
		return model.EmptyOpinion(c.Name()), err
	}

	if len(out.Choices) == 0 {
		return model.EmptyOpinion(c.Name()), &ParseError{Provider: c.Name(), Err: errNoObject}
	}
	return ParseOpinion(c.Name(), out.Choices[0].Message.Content)
}
