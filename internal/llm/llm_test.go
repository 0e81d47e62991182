// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-review/internal/prompt"
	"github.com/pdiddy/resume-review/pkg/types"
)

var testPrompt = prompt.Prompt{
	System: "You are an expert resume reviewer.",
	User:   "Resume Content:\nJane Doe",
}

func newChatBackend(url string) *ChatBackend {
	return &ChatBackend{
		Endpoint:    url,
		APIKey:      "ghp_test",
		ModelName:   "openai/gpt-4.1",
		Temperature: 0.7,
		MaxTokens:   2000,
	}
}

// --- ChatBackend ---

func TestChatBackendComplete(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/inference/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"### Verdict\n:green[Strong]"},"finish_reason":"stop"}]}`))
	}))
	defer ts.Close()

	text, err := newChatBackend(ts.URL+"/inference/").Complete(context.Background(), testPrompt)
	require.NoError(t, err)

	assert.Equal(t, "### Verdict\n:green[Strong]", text)
	assert.Equal(t, "openai/gpt-4.1", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	assert.Equal(t, 2000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: testPrompt.System}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: testPrompt.User}, got.Messages[1])
}

func TestChatBackendOmitsEmptySystem(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer ts.Close()

	_, err := newChatBackend(ts.URL).Complete(context.Background(), prompt.Prompt{User: "hi"})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestChatBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		wantMsg string
	}{
		{
			name:    "structured API error",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"Bad credentials","code":"unauthorized"}}`,
			wantMsg: "401: Bad credentials",
		},
		{
			name:    "plain text error",
			status:  http.StatusBadGateway,
			body:    "upstream unavailable",
			wantMsg: "502: upstream unavailable",
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			wantIs: ErrEmptyCompletion,
		},
		{
			name:   "blank content",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"role":"assistant","content":"  "}}]}`,
			wantIs: ErrEmptyCompletion,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"choices":`,
			wantMsg: "decoding chat completion response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newChatBackend(ts.URL).Complete(context.Background(), testPrompt)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestChatBackendAPIErrorType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newChatBackend(ts.URL).Complete(context.Background(), testPrompt)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "chat completion API returned 429", apiErr.Error())
}

func TestChatBackendNoRetryByDefault(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newChatBackend(ts.URL).Complete(context.Background(), testPrompt)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatBackendContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newChatBackend(ts.URL).Complete(ctx, testPrompt)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// --- New ---

func TestNew(t *testing.T) {
	t.Run("github defaults", func(t *testing.T) {
		b, err := New(context.Background(), types.AIConfig{APIKey: "ghp_x"})
		require.NoError(t, err)

		chat, ok := b.(*ChatBackend)
		require.True(t, ok)
		assert.Equal(t, types.DefaultEndpoint, chat.Endpoint)
		assert.Equal(t, types.DefaultModel, chat.Model())
		assert.Equal(t, types.DefaultMaxTokens, chat.MaxTokens)
		assert.Zero(t, chat.Temperature, "zero temperature is kept")
		assert.Equal(t, 0, chat.MaxRetries)
		assert.Equal(t, types.DefaultTimeout, chat.Client.Timeout)
	})

	t.Run("openai requires endpoint", func(t *testing.T) {
		_, err := New(context.Background(), types.AIConfig{Provider: types.ProviderOpenAI, APIKey: "sk"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ai.endpoint")
	})

	t.Run("missing credential", func(t *testing.T) {
		_, err := New(context.Background(), types.AIConfig{})
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(context.Background(), types.AIConfig{Provider: "watson", APIKey: "k"})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("gemini", func(t *testing.T) {
		b, err := New(context.Background(), types.AIConfig{Provider: types.ProviderGemini, APIKey: "AIza"})
		require.NoError(t, err)
		_, ok := b.(*GeminiBackend)
		assert.True(t, ok)
		assert.Equal(t, types.DefaultGeminiModel, b.Model())
	})
}

// --- GeminiBackend ---

func TestGeminiBackendComplete(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Dear Hiring Manager,"}]},"finishReason":"STOP"}]}`))
	}))
	defer ts.Close()

	b, err := NewGeminiBackend(context.Background(), types.AIConfig{
		Provider:    types.ProviderGemini,
		Endpoint:    ts.URL,
		APIKey:      "AIza_test",
		Model:       "gemini-test",
		Temperature: 0.7,
		MaxTokens:   2000,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)

	text, err := b.Complete(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,", text)
	assert.Contains(t, body, "systemInstruction")
	assert.Contains(t, body, "contents")
}
