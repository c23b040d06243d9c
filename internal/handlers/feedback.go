package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/services"
	"github.com/temcen/laptop-advisor/internal/validation"
	"github.com/temcen/laptop-advisor/pkg/models"
)

type FeedbackHandler struct {
	feedback  services.FeedbackServiceInterface
	schemas   *validation.SchemaValidator
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewFeedbackHandler(
	feedback services.FeedbackServiceInterface,
	schemas *validation.SchemaValidator,
	validate *validator.Validate,
	logger *logrus.Logger,
) *FeedbackHandler {
	return &FeedbackHandler{
		feedback:  feedback,
		schemas:   schemas,
		validator: validate,
		logger:    logger,
	}
}

// Record handles POST /api/v1/feedback. The body is checked against the
// feedback-event schema before it is decoded.
func (h *FeedbackHandler) Record(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_BODY", "Request body is required")
		return
	}

	if h.schemas != nil {
		if result := h.schemas.ValidateFeedbackEvent(body); !result.Valid {
			c.JSON(http.StatusBadRequest, result.ToAPIError())
			return
		}
	}

	var event models.FeedbackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
		return
	}
	if err := h.validator.Struct(&event); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
		return
	}

	recorded, outcome := h.feedback.RecordFeedback(c.Request.Context(), event)
	if !outcome.OK() {
		h.logger.WithError(outcome.Err).WithField("feedback_id", recorded.ID).Warn("Feedback recorded with errors")
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     recorded,
		"complete": outcome.OK(),
		"message":  "Feedback recorded",
	})
}
