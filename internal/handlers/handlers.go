package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Conversation   *ConversationHandler
	Recommendation *RecommendationHandler
	Feedback       *FeedbackHandler
	UIConfig       *UIConfigHandler
}

func New(logger *logrus.Logger, services *services.Services) *Handlers {
	validate := validator.New()
	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Conversation:   NewConversationHandler(services.Conversation, validate, logger),
		Recommendation: NewRecommendationHandler(services.Engine, validate, logger),
		Feedback:       NewFeedbackHandler(services.Feedback, services.Validator, validate, logger),
		UIConfig:       NewUIConfigHandler(services.UIConfig),
	}
}

func respondError(c *gin.Context, status int, code, message string, details ...string) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		body["details"] = details[0]
	}
	c.JSON(status, gin.H{"error": body})
}
