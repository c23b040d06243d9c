package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/validation"
)

type OpenAIOptions struct {
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	MaxTokens     int
	Temperature   float32
}

// OpenAICompleter asks an OpenAI-compatible chat endpoint for a JSON turn.
type OpenAICompleter struct {
	client    *openai.Client
	opts      OpenAIOptions
	validator *validation.SchemaValidator
	logger    *logrus.Logger
}

func NewOpenAICompleter(opts OpenAIOptions, validator *validation.SchemaValidator, logger *logrus.Logger) (*OpenAICompleter, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}

	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}

	return &OpenAICompleter{
		client:    openai.NewClientWithConfig(config),
		opts:      opts,
		validator: validator,
		logger:    logger,
	}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, systemPrompt, utterance string) (*Result, error) {
	result, err := withFallback(ctx, c.opts.Model, c.opts.FallbackModel, isOpenAIModelNotFound,
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

func (c *OpenAICompleter) complete(ctx context.Context, model, systemPrompt, utterance string) (*Result, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: utterance},
		},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	c.logger.WithFields(logrus.Fields{
		"model":      model,
		"max_tokens": c.opts.MaxTokens,
	}).Debug("Creating chat completion")

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, handleOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return ParseResult(resp.Choices[0].Message.Content, c.validator)
}

func handleOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized {
			return fmt.Errorf("invalid API key or unauthorized access: %w", err)
		}
		return fmt.Errorf("OpenAI API error (status %d): %w", apiErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("OpenAI client error: %w", err)
}

func isOpenAIModelNotFound(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusNotFound || apiErr.Code == "model_not_found"
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
