package services

import (
	"context"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// ConversationServiceInterface defines the conversational operations
type ConversationServiceInterface interface {
	ProcessTurn(ctx context.Context, req models.TurnRequest) *models.TurnResponse
	GetSession(ctx context.Context, id string) (*models.ConversationSession, error)
}

// RecommendationServiceInterface defines direct recommendation, bypassing conversation
type RecommendationServiceInterface interface {
	RecommendFromPreferences(ctx context.Context, prefs models.Preferences, userID string) (*models.RecommendationResult, Outcome)
}

// FeedbackServiceInterface defines feedback recording
type FeedbackServiceInterface interface {
	RecordFeedback(ctx context.Context, event models.FeedbackEvent) (models.FeedbackEvent, Outcome)
}

// UIConfigServiceInterface defines the adaptive UI configuration lookup
type UIConfigServiceInterface interface {
	GetAdaptiveUIConfig(userID string, context map[string]string) models.UIConfig
}

// HealthServiceInterface defines backend health reporting
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) *HealthStatus
}

var (
	_ ConversationServiceInterface   = (*ConversationOrchestrator)(nil)
	_ RecommendationServiceInterface = (*RecommendationEngine)(nil)
	_ FeedbackServiceInterface       = (*FeedbackService)(nil)
	_ UIConfigServiceInterface       = (*UIConfigService)(nil)
	_ HealthServiceInterface         = (*HealthService)(nil)
)
