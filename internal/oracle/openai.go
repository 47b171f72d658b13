package oracle

import (
	"context"
	"net/http"
)

// OpenAIClient completes prompts with the OpenAI chat completions API, or any server that
// speaks the same protocol.
type OpenAIClient struct {
	transport
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIClient creates a client for /v1/chat/completions.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	cfg = cfg.withDefaults()
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		transport:   newTransport("openai", cfg.BaseURL, cfg.Timeout),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	body := openAIChatRequest{
		Model:       c.model,
		Messages:    messages(req),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	var resp openAIChatResponse
	if err := c.post(ctx, "/v1/chat/completions", header, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &ResponseError{Reason: "openai returned no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}
