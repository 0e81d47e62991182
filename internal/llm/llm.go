// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends prompts to a hosted chat-completion API and returns the
// generated markdown. Backends are interchangeable behind Backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/resume-review/internal/prompt"
	"github.com/pdiddy/resume-review/pkg/types"
)

var (
	// ErrMissingCredential is returned when no API key is configured.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrUnknownProvider is returned for an unrecognised provider name.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrEmptyCompletion is returned when the API answers without any text.
	ErrEmptyCompletion = errors.New("model returned an empty completion")
)

// Backend produces a completion for one prompt.
type Backend interface {
	// Complete sends p and returns the model's text response.
	Complete(ctx context.Context, p prompt.Prompt) (string, error)

	// Model returns the model identifier used for completions.
	Model() string
}

// APIError describes a non-2xx answer from a chat-completion endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat completion API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("chat completion API returned %d: %s", e.StatusCode, e.Message)
}

// New builds the backend selected by cfg.Provider. cfg is completed with
// defaults first.
func New(ctx context.Context, cfg types.AIConfig) (Backend, error) {
	cfg = cfg.WithDefaults()
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingCredential, cfg.Provider)
	}

	switch cfg.Provider {
	case types.ProviderGitHub, types.ProviderOpenAI:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("provider %s requires ai.endpoint", cfg.Provider)
		}
		return &ChatBackend{
			Endpoint:    cfg.Endpoint,
			APIKey:      cfg.APIKey,
			ModelName:   cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			MaxRetries:  cfg.MaxRetries,
			Client:      &http.Client{Timeout: cfg.Timeout},
		}, nil
	case types.ProviderGemini:
		return NewGeminiBackend(ctx, cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}
