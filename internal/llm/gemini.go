// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/resume-review/internal/prompt"
	"github.com/pdiddy/resume-review/pkg/types"
)

// GeminiBackend calls the Gemini API through the genai SDK.
type GeminiBackend struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiBackend creates a Gemini client from cfg. A non-empty
// cfg.Endpoint overrides the API base URL.
func NewGeminiBackend(ctx context.Context, cfg types.AIConfig) (*GeminiBackend, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiBackend{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

// Model returns the configured model identifier.
func (g *GeminiBackend) Model() string { return g.model }

// Complete sends p.User as the content and p.System as the system
// instruction.
func (g *GeminiBackend) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
	}
	if p.System != "" {
		config.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), config)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
