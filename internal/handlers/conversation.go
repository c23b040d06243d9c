package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/services"
	"github.com/temcen/laptop-advisor/internal/session"
	"github.com/temcen/laptop-advisor/pkg/models"
)

type ConversationHandler struct {
	conversation services.ConversationServiceInterface
	validator    *validator.Validate
	logger       *logrus.Logger
}

func NewConversationHandler(
	conversation services.ConversationServiceInterface,
	validate *validator.Validate,
	logger *logrus.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		conversation: conversation,
		validator:    validate,
		logger:       logger,
	}
}

// ProcessTurn handles POST /api/v1/conversation.
func (h *ConversationHandler) ProcessTurn(c *gin.Context) {
	var req models.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind conversation request")
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, h.conversation.ProcessTurn(c.Request.Context(), req))
}

// GetSession handles GET /api/v1/conversation/:sessionId.
func (h *ConversationHandler) GetSession(c *gin.Context) {
	id := c.Param("sessionId")

	sess, err := h.conversation.GetSession(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("session_id", id).Error("Failed to load session")
		respondError(c, http.StatusInternalServerError, "SESSION_LOOKUP_FAILED", "Failed to load session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sess})
}
