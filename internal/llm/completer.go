// Package llm wraps language model providers behind a single completion
// call that returns a structured conversational turn.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/temcen/laptop-advisor/internal/validation"
	"github.com/temcen/laptop-advisor/pkg/models"
)

var (
	ErrInvalidResponse = errors.New("invalid model response")
	ErrModelNotFound   = errors.New("model not found")
	ErrEmptyResponse   = errors.New("empty model response")
)

// Result is the structured turn the model is asked to produce.
type Result struct {
	Response       string                  `json:"response"`
	Phase          models.Phase            `json:"phase"`
	UIElements     []models.Affordance     `json:"ui_elements,omitempty"`
	CollectedData  *models.PreferenceDelta `json:"collected_data,omitempty"`
	DatabaseFilter *models.CatalogFilter   `json:"database_filter,omitempty"`

	// Model is the model id that produced the result.
	Model string `json:"-"`
	// Fallback is set when the secondary model answered.
	Fallback bool `json:"-"`
}

// Completer produces a structured turn from a system prompt and the user's text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, utterance string) (*Result, error)
}

// ParseResult extracts, validates and decodes the JSON object in raw model text.
func ParseResult(raw string, sv *validation.SchemaValidator) (*Result, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}
	if sv != nil {
		if err := sv.ValidateModelTurn(doc).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	var result Result
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if result.CollectedData != nil && result.CollectedData.Budget != nil && result.CollectedData.Budget.Source == "" {
		result.CollectedData.Budget.Source = models.BudgetFromExplicit
	}
	return &result, nil
}

// extractJSON returns the outermost JSON object, tolerating code fences and
// surrounding prose.
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyResponse
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrInvalidResponse)
	}
	return text[start : end+1], nil
}

// withFallback runs call with primary and, on a model-not-found error, once
// more with fallback.
func withFallback(ctx context.Context, primary, fallback string, isNotFound func(error) bool,
	call func(ctx context.Context, model string) (*Result, error)) (*Result, error) {

	result, err := call(ctx, primary)
	if err == nil {
		result.Model = primary
		return result, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	if fallback == "" || fallback == primary {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelNotFound, primary, err)
	}

	result, err = call(ctx, fallback)
	if err != nil {
		return nil, fmt.Errorf("fallback model %s failed: %w", fallback, err)
	}
	result.Model = fallback
	result.Fallback = true
	return result, nil
}
