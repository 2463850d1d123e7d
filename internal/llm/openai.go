package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/radlens/radlens/internal/config"
)

// OpenAI sends the image and prompt as a single multimodal chat completion.
// Works against the OpenAI API or an Azure OpenAI deployment.
type OpenAI struct {
	client *openai.Client
	cfg    *config.ModelConfig
}

func NewOpenAI(cfg *config.ModelConfig) (*OpenAI, error) {
	var client *openai.Client

	switch cfg.Provider {
	case "azure":
		client = openai.NewClient(
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default: // "openai"
		client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.APIEndpoint),
		)
	}

	return &OpenAI{
		client: client,
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Name() string { return o.cfg.Provider }

func (o *OpenAI) Analyze(ctx context.Context, req Request) (*Result, error) {
	imageURL := fmt.Sprintf("data:%s;base64,%s",
		req.ImageMIME, base64.StdEncoding.EncodeToString(req.ImageData))

	resp, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model: openai.F(o.cfg.Model),
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.UserMessageParts(
					openai.TextPart(req.Prompt),
					openai.ImagePart(imageURL),
				),
			}),
			MaxTokens:   openai.F(o.cfg.MaxTokens),
			Temperature: openai.F(0.0),
		},
	)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%w: completion contained no text", ErrInvalidResponse)
	}

	return &Result{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func mapOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return classifyStatus(apierr.StatusCode, err)
	}
	return classifyTransport(err)
}
