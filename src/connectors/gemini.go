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
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash"
)

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GeminiClient queries the generateContent API with a JSON response type.
type GeminiClient struct {
	apiKey    string
	modelName string
	http      *resty.Client
}

func NewGeminiClient(apiKey, modelName, baseURL string, timeout time.Duration, retries int) *GeminiClient {
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	return &GeminiClient{
		apiKey:    apiKey,
		modelName: modelName,
		http:      newRestyClient(baseURL, defaultGeminiBaseURL, timeout, retries),
	}
}

func (c *GeminiClient) Name() model.ProviderName { return model.ProviderGemini }

func (c *GeminiClient) Query(ctx context.Context, instrument, prompt string) (model.ProviderOpinion, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return model.EmptyOpinion(c.Name()), fmt.Errorf("%s: %w", c.Name(), ErrNotConfigured)
	}

	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: prompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userMessage(instrument)}}},
		},
		GenerationConfig: geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	var out geminiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetPathParam("model", c.modelName).
		SetBody(body).
		SetResult(&out).
		Post("/v1beta/models/{model}:generateContent")
	if err := checkResponse(string(c.Name()), resp, err); err != nil {
		return model.EmptyOpinion(c.Name()), err
	}

	if len(out.Candidates) == 0 {
		return model.EmptyOpinion(c.Name()), &ParseError{Provider: c.Name(), Err: errNoObject}
	}

	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return ParseOpinion(c.Name(), text.String())
}
