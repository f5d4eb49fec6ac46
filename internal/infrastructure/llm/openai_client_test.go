package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essay-ai-api/internal/config"
	"essay-ai-api/internal/domain/entity"
	"essay-ai-api/internal/domain/service"
	apperrors "essay-ai-api/pkg/errors"
)

type captureRecorder struct {
	mu    sync.Mutex
	usage []service.CompletionUsage
}

func (r *captureRecorder) Record(_ context.Context, u service.CompletionUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usage = append(r.usage, u)
	return nil
}

func newOpenAIServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 200, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "You are a professional academic writer.", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testLLMConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Driver:      config.DriverOpenAI,
		APIKey:      "sk-test",
		BaseURL:     baseURL + "/v1",
		Model:       "test-model",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func titlesPrompt() entity.Prompt {
	return entity.NewPrompt(entity.KindTitles, "You are a professional academic writer.", `Generate 5 creative and engaging academic essay titles about "x". Make them unique and specific.`)
}

func TestOpenAICompleterSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := newOpenAIServer(t, http.StatusOK, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"model": "test-model",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "1. A\n2. B"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28}
	}`, &calls)

	rec := &captureRecorder{}
	c := NewOpenAICompleter(testLLMConfig(srv.URL), rec)

	text, err := c.Complete(context.Background(), titlesPrompt())
	require.NoError(t, err)
	assert.Equal(t, "1. A\n2. B", text)
	assert.EqualValues(t, 1, calls.Load())

	require.Len(t, rec.usage, 1)
	assert.Equal(t, "titles", rec.usage[0].Kind)
	assert.Equal(t, config.DriverOpenAI, rec.usage[0].Driver)
	assert.Equal(t, 20, rec.usage[0].PromptTokens)
	assert.Equal(t, 8, rec.usage[0].CompletionTokens)
}

func TestOpenAICompleterNoChoices(t *testing.T) {
	var calls atomic.Int32
	srv := newOpenAIServer(t, http.StatusOK, `{"id":"x","choices":[]}`, &calls)

	_, err := NewOpenAICompleter(testLLMConfig(srv.URL), nil).Complete(context.Background(), titlesPrompt())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.Contains(t, apperrors.AsAppError(err).Details(), "no choices")
}

func TestOpenAICompleterNon2xxIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := newOpenAIServer(t, http.StatusBadGateway, `{"error":{"message":"bad gateway","type":"server_error"}}`, &calls)

	_, err := NewOpenAICompleter(testLLMConfig(srv.URL), nil).Complete(context.Background(), titlesPrompt())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.EqualValues(t, 1, calls.Load())
}

func TestOpenAICompleterTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewOpenAICompleter(testLLMConfig(url), nil).Complete(context.Background(), titlesPrompt())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
}

func TestNewCompleterSelectsDriver(t *testing.T) {
	cfg := testLLMConfig("http://localhost:1")

	c, err := NewCompleter(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DriverOpenAI, c.Name())

	cfg.Driver = config.DriverEino
	c, err = NewCompleter(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DriverEino, c.Name())

	cfg.Driver = "gemini"
	_, err = NewCompleter(context.Background(), cfg, nil)
	assert.Error(t, err)
}
