// Package summarizer turns article text into a short summary using an external model API.
// Failures never surface as errors, they are mapped to fixed placeholder summaries.
package summarizer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/AdwitiyaKhare/trendboard-ai/pkg/config"
)

// placeholder summaries stored when no real summary is available
const (
	Unavailable = "Summary unavailable (API token missing)."
	NoSummary   = "No summary generated."
	Failed      = "Summary error."
)

// ErrEmptySummary is returned by providers when the model produced no text
var ErrEmptySummary = errors.New("empty summary")

//go:generate moq -out mocks/provider.go -pkg mocks -skip-ensure -fmt goimports . Provider

// Provider calls a summarization backend
type Provider interface {
	Complete(ctx context.Context, text string) (string, error)
}

// Summarizer wraps a provider with a per-call timeout and placeholder handling
type Summarizer struct {
	provider Provider
	timeout  time.Duration
}

// New creates a summarizer for the configured provider.
// Without an API token the summarizer is disabled and never calls the network.
func New(cfg config.SummarizerConfig) *Summarizer {
	if cfg.APIToken == "" {
		lgr.Printf("[WARN] summarizer api token is not set, summaries are disabled")
		return &Summarizer{timeout: cfg.Timeout}
	}

	var p Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		p = NewOpenAI(cfg)
	default:
		p = NewHuggingFace(cfg)
	}
	return NewWithProvider(p, cfg.Timeout)
}

// NewWithProvider creates a summarizer around an existing provider, a nil provider disables summaries
func NewWithProvider(p Provider, timeout time.Duration) *Summarizer {
	return &Summarizer{provider: p, timeout: timeout}
}

// Summarize returns the model summary of text as is, or one of the placeholder summaries
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if s.provider == nil {
		return Unavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	summary, err := s.provider.Complete(ctx, text)
	if errors.Is(err, ErrEmptySummary) {
		lgr.Printf("[WARN] summarizer returned empty summary")
		return NoSummary
	}
	if err != nil {
		lgr.Printf("[WARN] summarization failed: %v", err)
		return Failed
	}

	if res := strings.TrimSpace(summary); res != "" {
		return res
	}
	return NoSummary
}
