// Package oracle is the text-completion boundary of the service. A Completer turns a system
// instruction and a prompt into text; everything that interprets that text lives elsewhere.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Default generation parameters.
const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 8000
	DefaultTimeout     = 120 * time.Second
)

// jsonOnlySuffix is appended to prompts for providers without a native JSON mode.
const jsonOnlySuffix = "\n\nRespond with valid JSON only, no other text."

// Request is a single completion request.
type Request struct {
	System string
	Prompt string
	// JSON asks the provider to constrain its output to a JSON object.
	JSON bool
}

// Completer produces a completion for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Config selects and parameterises a provider.
type Config struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}

// New builds the Completer named by cfg.Provider.
func New(cfg Config) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		return NewOllamaClient(cfg), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, errors.New("oracle: openai provider requires an api key")
		}
		return NewOpenAIClient(cfg), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, errors.New("oracle: anthropic provider requires an api key")
		}
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("oracle: unknown provider %q", cfg.Provider)
	}
}

// transport is the HTTP plumbing shared by the provider clients.
type transport struct {
	provider   string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func newTransport(provider, baseURL string, timeout time.Duration) transport {
	return transport{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout: timeout + 5*time.Second,
		},
	}
}

// post sends in as JSON to baseURL+path and decodes the response into out. The call runs
// under the client's timeout; a deadline hit is reported as a *TimeoutError.
func (t transport) post(ctx context.Context, path string, header http.Header, in, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s oracle: marshal: %w", t.provider, err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s oracle: create request: %w", t.provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return t.callError(callCtx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s oracle: status %d: %s", t.provider, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if callCtx.Err() != nil {
			return t.callError(callCtx, err)
		}
		return &ResponseError{Reason: t.provider + " envelope is not valid JSON", Err: err}
	}
	return nil
}

func (t transport) callError(callCtx context.Context, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Provider: t.provider, After: t.timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Provider: t.provider, After: t.timeout}
	}
	return fmt.Errorf("%s oracle: request failed: %w", t.provider, err)
}
