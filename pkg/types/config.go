// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies the hosted chat-completion service.
type Provider string

const (
	// ProviderGitHub is the GitHub Models inference endpoint (OpenAI-compatible).
	ProviderGitHub Provider = "github"
	// ProviderOpenAI is any other OpenAI-compatible chat completions endpoint.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

const (
	DefaultProvider    = ProviderGitHub
	DefaultEndpoint    = "https://models.github.ai/inference"
	DefaultModel       = "openai/gpt-4.1"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 120 * time.Second
	DefaultAddr        = ":8501"
	DefaultMaxUploadMB = 10
)

// AIConfig holds settings for the chat-completion backend.
type AIConfig struct {
	// Provider selects the backend: github, openai, or gemini.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Endpoint is the base URL of an OpenAI-compatible API. The client
	// appends /chat/completions. For gemini it overrides the API base URL.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Model is the model identifier (e.g. "openai/gpt-4.1").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the bearer credential. Usually supplied through the
	// environment (GITHUB_TOKEN, OPENAI_API_KEY, GEMINI_API_KEY) or .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the completion length (default 2000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// MaxRetries is the number of retries on HTTP 429. Zero sends each
	// request exactly once.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout bounds a single completion call (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
// Temperature is left alone because zero is a valid setting; the CLI
// configuration supplies its default.
func (c AIConfig) WithDefaults() AIConfig {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Endpoint == "" && c.Provider == ProviderGitHub {
		c.Endpoint = DefaultEndpoint
	}
	if c.Model == "" {
		if c.Provider == ProviderGemini {
			c.Model = DefaultGeminiModel
		} else {
			c.Model = DefaultModel
		}
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// ServerConfig holds settings for the web UI.
type ServerConfig struct {
	// Addr is the listen address (default ":8501").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadMB is the largest accepted upload in megabytes (default 10).
	MaxUploadMB int `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (c ServerConfig) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = DefaultMaxUploadMB
	}
	return int64(mb) * 1024 * 1024
}

// Config groups all settings.
type Config struct {
	AI     AIConfig     `json:"ai" yaml:"ai" mapstructure:"ai"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
}
