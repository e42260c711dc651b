// Package llm drafts completion text through one of the supported language-model providers.
package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrEmptyCompletion is returned when the provider answers without any text.
var ErrEmptyCompletion = eris.New("completion contained no text")

// Generator turns a single user prompt into completion text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configures whichever provider is selected.
type Options struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
}

// New builds the generator for opts.Provider.
func New(opts Options) (Generator, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderOpenAI:
		return NewOpenAIGenerator(&http.Client{Timeout: opts.Timeout}, opts.BaseURL, opts.APIKey, opts.Model, opts.MaxTokens), nil
	case ProviderAnthropic:
		return NewAnthropicGenerator(opts.APIKey, opts.Model, opts.MaxTokens, opts.Timeout), nil
	default:
		return nil, eris.Errorf("llm: unsupported provider %q", opts.Provider)
	}
}
