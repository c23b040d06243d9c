package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/laptop-advisor/internal/services"
	"github.com/temcen/laptop-advisor/internal/session"
	"github.com/temcen/laptop-advisor/internal/validation"
	"github.com/temcen/laptop-advisor/pkg/models"
)

type MockConversationService struct {
	mock.Mock
}

func (m *MockConversationService) ProcessTurn(ctx context.Context, req models.TurnRequest) *models.TurnResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.TurnResponse)
}

func (m *MockConversationService) GetSession(ctx context.Context, id string) (*models.ConversationSession, error) {
	args := m.Called(ctx, id)
	if sess := args.Get(0); sess != nil {
		return sess.(*models.ConversationSession), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) RecommendFromPreferences(ctx context.Context, prefs models.Preferences, userID string) (*models.RecommendationResult, services.Outcome) {
	args := m.Called(ctx, prefs, userID)
	return args.Get(0).(*models.RecommendationResult), args.Get(1).(services.Outcome)
}

type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) RecordFeedback(ctx context.Context, event models.FeedbackEvent) (models.FeedbackEvent, services.Outcome) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.FeedbackEvent), args.Get(1).(services.Outcome)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) CheckHealth(ctx context.Context) *services.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(*services.HealthStatus)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestConversationHandler_ProcessTurn(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockConversationService)
	handler := NewConversationHandler(svc, validator.New(), testLogger())
	router := gin.New()
	router.POST("/api/v1/conversation", handler.ProcessTurn)

	svc.On("ProcessTurn", mock.Anything, mock.MatchedBy(func(req models.TurnRequest) bool {
		return req.UserID == "u1" && req.Message == "I need a gaming laptop"
	})).Return(&models.TurnResponse{
		Response:        "Just to confirm, you're looking for a laptop for gaming. Does that look right?",
		SessionID:       "sess-1",
		Phase:           models.PhaseDiscovery,
		Recommendations: []models.ScoredCandidate{},
	})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"valid turn", `{"user_id":"u1","message":"I need a gaming laptop"}`, http.StatusOK, ""},
		{"malformed json", `{"user_id":`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing message", `{"user_id":"u1"}`, http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/api/v1/conversation", tt.body)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
				return
			}

			var resp models.TurnResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "sess-1", resp.SessionID)
			assert.Equal(t, models.PhaseDiscovery, resp.Phase)
		})
	}

	svc.AssertNumberOfCalls(t, "ProcessTurn", 1)
}

func TestConversationHandler_GetSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockConversationService)
	handler := NewConversationHandler(svc, validator.New(), testLogger())
	router := gin.New()
	router.GET("/api/v1/conversation/:sessionId", handler.GetSession)

	svc.On("GetSession", mock.Anything, "sess-1").Return(&models.ConversationSession{ID: "sess-1", TurnCount: 2}, nil)
	svc.On("GetSession", mock.Anything, "gone").Return(nil, session.ErrNotFound)
	svc.On("GetSession", mock.Anything, "broken").Return(nil, errors.New("redis timeout"))

	w := perform(router, http.MethodGet, "/api/v1/conversation/sess-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.ConversationSession `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.TurnCount)

	w = perform(router, http.MethodGet, "/api/v1/conversation/gone", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", errorCode(t, w))

	w = perform(router, http.MethodGet, "/api/v1/conversation/broken", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecommendationHandler_Recommend(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockRecommendationService)
	handler := NewRecommendationHandler(svc, validator.New(), testLogger())
	router := gin.New()
	router.POST("/api/v1/recommendations", handler.Recommend)

	svc.On("RecommendFromPreferences", mock.Anything, mock.MatchedBy(func(p models.Preferences) bool {
		return p.Budget != nil && p.Budget.Max == 1500 && len(p.Brands) == 1
	}), "u1").Return(&models.RecommendationResult{
		Candidates: []models.ScoredCandidate{
			{Candidate: models.CandidateProduct{ID: "dell-1", Brand: "Dell", Price: 1299}, Score: 0.8},
		},
		CandidateCount: 1,
	}, services.Outcome{Operation: "record_recommendation"})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"valid", `{"user_id":"u1","preferences":{"budget":{"min":800,"max":1500},"brands":["Dell"]}}`, http.StatusOK, ""},
		{"missing user", `{"preferences":{}}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"inverted budget", `{"user_id":"u1","preferences":{"budget":{"min":1500,"max":800}}}`, http.StatusBadRequest, "INVALID_BUDGET"},
		{"not json", `budget please`, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/api/v1/recommendations", tt.body)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
				return
			}

			var result models.RecommendationResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			require.Len(t, result.Candidates, 1)
			assert.Equal(t, "dell-1", result.Candidates[0].Candidate.ID)
		})
	}
}

func TestFeedbackHandler_Record(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockFeedbackService)
	handler := NewFeedbackHandler(svc, validation.MustEmbeddedValidator(), validator.New(), testLogger())
	router := gin.New()
	router.POST("/api/v1/feedback", handler.Record)

	svc.On("RecordFeedback", mock.Anything, mock.MatchedBy(func(e models.FeedbackEvent) bool {
		return e.UserID == "u1" && e.Candidate.ID == "dell-1" && e.Action == models.ActionPurchased
	})).Return(models.FeedbackEvent{ID: "fb-1", UserID: "u1"}, services.Outcome{Operation: "record_feedback"})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"valid", `{"user_id":"u1","action":"purchased","candidate":{"id":"dell-1","brand":"Dell","price":1299}}`, http.StatusCreated, ""},
		{"unknown action", `{"user_id":"u1","action":"liked","candidate":{"id":"dell-1"}}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing candidate", `{"user_id":"u1","action":"clicked"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"empty body", ``, http.StatusBadRequest, "EMPTY_BODY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPost, "/api/v1/feedback", tt.body)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
				return
			}

			var body struct {
				Data     models.FeedbackEvent `json:"data"`
				Complete bool                 `json:"complete"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "fb-1", body.Data.ID)
			assert.True(t, body.Complete)
		})
	}

	svc.AssertNumberOfCalls(t, "RecordFeedback", 1)
}

func TestUIConfigHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewUIConfigHandler(services.NewUIConfigService(5))
	router := gin.New()
	router.GET("/api/v1/ui-config/:userId", handler.Get)

	w := perform(router, http.MethodGet, "/api/v1/ui-config/u1?device=mobile&theme=dark", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var cfg models.UIConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "u1", cfg.UserID)
	assert.Equal(t, "list", cfg.Layout)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestHealthHandler_Check(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status string
		code   int
	}{
		{"healthy", http.StatusOK},
		{"degraded", http.StatusOK},
		{"unhealthy", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			svc := new(MockHealthService)
			svc.On("CheckHealth", mock.Anything).Return(&services.HealthStatus{Status: tt.status})
			router := gin.New()
			router.GET("/health", NewHealthHandler(testLogger(), svc).Check)

			w := perform(router, http.MethodGet, "/health", "")

			assert.Equal(t, tt.code, w.Code)
		})
	}
}
