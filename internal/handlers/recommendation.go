package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/services"
	"github.com/temcen/laptop-advisor/pkg/models"
)

type RecommendationHandler struct {
	engine    services.RecommendationServiceInterface
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewRecommendationHandler(
	engine services.RecommendationServiceInterface,
	validate *validator.Validate,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		engine:    engine,
		validator: validate,
		logger:    logger,
	}
}

// Recommend handles POST /api/v1/recommendations.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
		return
	}

	if b := req.Preferences.Budget; b != nil && (b.Min < 0 || b.Max < b.Min) {
		respondError(c, http.StatusBadRequest, "INVALID_BUDGET", "Budget must satisfy 0 <= min <= max")
		return
	}

	result, outcome := h.engine.RecommendFromPreferences(c.Request.Context(), req.Preferences, req.UserID)
	outcome.Log(h.logger, logrus.Fields{"user_id": req.UserID})

	c.JSON(http.StatusOK, result)
}
