// Package llm provides a provider-neutral chat completion client used for
// value estimation and quotation drafting. Two providers are supported:
// the Anthropic API through the official SDK, and any OpenAI-compatible
// chat completions endpoint.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Client performs a single chat completion.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request carries one completion request. Model and MaxTokens fall back to
// the client's configured defaults when zero.
type Request struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

// Provider names accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config selects and configures a provider.
type Config struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
}

// New builds a Client for the configured provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic, "":
		return NewAnthropic(cfg.APIKey, cfg.Model), nil
	case ProviderOpenAI:
		var opts []Option
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithModel(cfg.Model))
		}
		return NewOpenAI(cfg.APIKey, opts...), nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// CleanJSON strips markdown code fences and surrounding prose from a model
// response, returning the first top-level JSON object or array. Models
// wrap JSON in ```json fences often enough that every JSON contract goes
// through this.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
	}
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	if end := strings.LastIndexByte(s, closer); end > start {
		return s[start : end+1]
	}
	return s[start:]
}
