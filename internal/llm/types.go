// Package llm talks to the hosted multimodal model. Providers perform exactly
// one network call per Analyze invocation; retry policy belongs to the caller.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/radlens/radlens/internal/config"
)

var (
	// ErrAuthentication means the credential was rejected. Fatal, never retried.
	ErrAuthentication = errors.New("model credentials rejected")

	// ErrTransient covers network failures, timeouts, and rate limits. The
	// caller may retry with backoff.
	ErrTransient = errors.New("transient model service error")

	// ErrInvalidResponse means the call succeeded but returned empty or
	// unusable text. Surfaced, not retried.
	ErrInvalidResponse = errors.New("invalid model response")
)

// Request pairs one encoded image with the prompt text.
type Request struct {
	ImageData []byte
	ImageMIME string
	Prompt    string
}

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Result is the model's raw text response. No schema beyond "non-empty text"
// is guaranteed; section parsing downstream is best-effort.
type Result struct {
	Text  string
	Model string
	Usage Usage
}

type Provider interface {
	Name() string
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// New selects a provider implementation from configuration.
func New(cfg *config.ModelConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return NewGemini(cfg), nil
	case "openai", "azure":
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// classifyStatus maps an HTTP status from a provider API into the error
// taxonomy. Statuses that indicate neither auth failure nor a retryable
// condition are returned as-is.
func classifyStatus(status int, err error) error {
	switch {
	case status == 401 || status == 403:
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	case status == 408 || status == 429 || status >= 500:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}

// classifyTransport maps non-API errors (connection failures, timeouts,
// cancellations) to ErrTransient.
func classifyTransport(err error) error {
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
