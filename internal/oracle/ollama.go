package oracle

import (
	"context"
	"net/http"
)

// OllamaClient completes prompts with a local Ollama chat model.
type OllamaClient struct {
	transport
	model       string
	temperature float64
	maxTokens   int
}

// NewOllamaClient creates a client for Ollama's /api/chat endpoint.
func NewOllamaClient(cfg Config) *OllamaClient {
	cfg = cfg.withDefaults()
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	return &OllamaClient{
		transport:   newTransport("ollama", cfg.BaseURL, cfg.Timeout),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (c *OllamaClient) Complete(ctx context.Context, req Request) (string, error) {
	body := ollamaChatRequest{
		Model:    c.model,
		Messages: messages(req),
		Stream:   false,
		Options:  ollamaOptions{Temperature: c.temperature, NumPredict: c.maxTokens},
	}
	if req.JSON {
		body.Format = "json"
	}

	var resp ollamaChatResponse
	if err := c.post(ctx, "/api/chat", http.Header{}, body, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// messages renders a request as the system+user pair chat APIs expect.
func messages(req Request) []chatMessage {
	var out []chatMessage
	if req.System != "" {
		out = append(out, chatMessage{Role: "system", Content: req.System})
	}
	return append(out, chatMessage{Role: "user", Content: req.Prompt})
}
