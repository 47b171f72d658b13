package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

// TestMain runs goleak after the package tests to catch HTTP client goroutines left behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// TestOllamaClient_Complete verifies the chat request shape, JSON mode, and generation options.
func TestOllamaClient_Complete(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"ok\":true}"}}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(Config{BaseURL: srv.URL, Model: "llama3.1", Timeout: time.Second})
	text, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "hello", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "llama3.1", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	assert.InDelta(t, DefaultTemperature, got.Options.Temperature, 1e-9)
	assert.Equal(t, DefaultMaxTokens, got.Options.NumPredict)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "hello"}, got.Messages[1])
}

// TestOpenAIClient_Complete verifies bearer auth and the json_object response format.
func TestOpenAIClient_Complete(t *testing.T) {
	var got openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"done"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{BaseURL: srv.URL, APIKey: "sk-test", Timeout: time.Second})
	text, err := c.Complete(context.Background(), Request{Prompt: "p", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, "done", text)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
}

// TestOpenAIClient_NoChoices verifies an empty choices array is a malformed response.
func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second})
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

// TestAnthropicClient_Complete verifies headers, the JSON instruction suffix, and that text
// blocks are concatenated.
func TestAnthropicClient_Complete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"a\":"},{"type":"text","text":"1}"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient(Config{BaseURL: srv.URL, APIKey: "key", Timeout: time.Second})
	text, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "p", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"a":1}`, text)
	assert.Equal(t, "sys", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "p"+jsonOnlySuffix, got.Messages[0].Content)
}

// TestTransport_Timeout verifies a slow provider surfaces as a TimeoutError rather than an
// empty completion.
func TestTransport_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewOllamaClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	text, err := c.Complete(context.Background(), Request{Prompt: "p"})

	require.Error(t, err)
	assert.Empty(t, text)
	assert.ErrorIs(t, err, ErrTimeout)
	var te *TimeoutError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "ollama", te.Provider)
}

// TestTransport_StatusError verifies non-200 responses include the status and a body excerpt.
func TestTransport_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOllamaClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
	assert.NotErrorIs(t, err, ErrTimeout)
}

// TestNew verifies provider selection and API-key requirements.
func TestNew(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		want    any
		wantErr bool
	}{
		{"ollama", Config{Provider: "ollama"}, &OllamaClient{}, false},
		{"openai", Config{Provider: "OpenAI", APIKey: "k"}, &OpenAIClient{}, false},
		{"anthropic", Config{Provider: "anthropic", APIKey: "k"}, &AnthropicClient{}, false},
		{"openai without key", Config{Provider: "openai"}, nil, true},
		{"unknown", Config{Provider: "gpt-local"}, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.cfg)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.want, c)
		})
	}
}

// TestInstrument_RecordsOutcome verifies the counter labels for success and timeout.
func TestInstrument_RecordsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockCompleter(ctrl)
	gomock.InOrder(
		mock.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("text", nil),
		mock.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", &TimeoutError{After: time.Second}),
	)

	metrics := NewMetrics(prometheus.NewRegistry())
	c := Instrument(mock, "mock", metrics)

	text, err := c.Complete(context.Background(), Request{Prompt: "a"})
	require.NoError(t, err)
	assert.Equal(t, "text", text)

	_, err = c.Complete(context.Background(), Request{Prompt: "b"})
	assert.ErrorIs(t, err, ErrTimeout)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues("mock", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues("mock", OutcomeTimeout)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Requests.WithLabelValues("mock", OutcomeError)))
}

// TestCompleterFunc verifies the function adapter passes the request through.
func TestCompleterFunc(t *testing.T) {
	var seen Request
	c := CompleterFunc(func(_ context.Context, req Request) (string, error) {
		seen = req
		return "ok", nil
	})
	text, err := c.Complete(context.Background(), Request{System: "s", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "s", seen.System)
}
