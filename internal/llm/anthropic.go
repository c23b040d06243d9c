package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/validation"
)

type AnthropicOptions struct {
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	MaxTokens     int64
	Temperature   float64
}

// AnthropicCompleter asks the Anthropic Messages API for a JSON turn.
type AnthropicCompleter struct {
	client    anthropic.Client
	opts      AnthropicOptions
	validator *validation.SchemaValidator
	logger    *logrus.Logger
}

func NewAnthropicCompleter(opts AnthropicOptions, validator *validation.SchemaValidator, logger *logrus.Logger, extra ...option.RequestOption) (*AnthropicCompleter, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if opts.Model == "" {
		opts.Model = string(anthropic.ModelClaude3_5HaikuLatest)
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	clientOpts = append(clientOpts, extra...)

	return &AnthropicCompleter{
		client:    anthropic.NewClient(clientOpts...),
		opts:      opts,
		validator: validator,
		logger:    logger,
	}, nil
}

func (c *AnthropicCompleter) Complete(ctx context.Context, systemPrompt, utterance string) (*Result, error) {
	result, err := withFallback(ctx, c.opts.Model, c.opts.FallbackModel, isAnthropicModelNotFound,
		func(ctx context.Context, model string) (*Result, error) {
			return c.complete(ctx, model, systemPrompt, utterance)
		})
	if err != nil {
		return nil, err
	}
	if result.Fallback {
		c.logger.WithFields(logrus.Fields{
			"primary_model":  c.opts.Model,
			"fallback_model": result.Model,
		}).Warn("Primary model unavailable, answered by fallback model")
	}
	return result, nil
}

func (c *AnthropicCompleter) complete(ctx context.Context, model, systemPrompt, utterance string) (*Result, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(utterance)),
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	return ParseResult(text.String(), c.validator)
}

func isAnthropicModelNotFound(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}
