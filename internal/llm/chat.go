// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/resume-review/internal/httputil"
	"github.com/pdiddy/resume-review/internal/prompt"
)

// chatCompletionsPath is appended to the configured endpoint.
const chatCompletionsPath = "/chat/completions"

// maxErrorBody bounds how much of an error response ends up in APIError.
const maxErrorBody = 512

// ChatBackend calls an OpenAI-compatible chat completions API, such as
// GitHub Models at https://models.github.ai/inference.
type ChatBackend struct {
	Endpoint    string
	APIKey      string
	ModelName   string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	Client      *http.Client
}

// chatRequest is the request body for POST /chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the completion response we read.
type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// chatErrorResponse is the error envelope used by OpenAI-compatible APIs.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Model returns the configured model identifier.
func (c *ChatBackend) Model() string { return c.ModelName }

// Complete sends the system and user messages and returns the first
// choice's content.
func (c *ChatBackend) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: p.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: p.User})

	bodyBytes, err := json.Marshal(chatRequest{
		Model:       c.ModelName,
		Messages:    messages,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.Endpoint, "/") + chatCompletionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling chat completion API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat completion response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := cResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

// errorMessage prefers the structured error message and falls back to the
// raw body.
func errorMessage(body []byte) string {
	var envelope chatErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(body))
}
