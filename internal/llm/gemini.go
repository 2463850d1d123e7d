package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/radlens/radlens/internal/config"
)

// Gemini sends the image as an inline blob alongside the prompt text. This is
// the provider the default configuration uses.
type Gemini struct {
	cfg *config.ModelConfig
}

func NewGemini(cfg *config.ModelConfig) *Gemini {
	return &Gemini{cfg: cfg}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Analyze(ctx context.Context, req Request) (*Result, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.cfg.APIKey))
	if err != nil {
		return nil, mapGeminiError(err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(g.cfg.Model))
	maxTokens := int32(g.cfg.MaxTokens)
	m.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
	}

	resp, err := m.GenerateContent(ctx,
		genai.Text(req.Prompt),
		genai.Blob{MIMEType: req.ImageMIME, Data: req.ImageData},
	)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no candidate text", ErrInvalidResponse)
	}

	result := &Result{
		Text:  text,
		Model: g.cfg.Model,
	}
	if resp.UsageMetadata != nil {
		result.Usage = Usage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int64(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return result, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func mapGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return classifyStatus(gerr.Code, err)
	}
	return classifyTransport(err)
}
