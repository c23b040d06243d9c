package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/internal/messaging"
	"github.com/temcen/laptop-advisor/internal/weights"
	"github.com/temcen/laptop-advisor/pkg/models"
)

// FeedbackService appends feedback to user history and adapts weights.
type FeedbackService struct {
	weights weights.Store
	sink    messaging.Sink
	metrics *Metrics
	logger  *logrus.Logger
	now     func() time.Time
}

func NewFeedbackService(store weights.Store, sink messaging.Sink, metrics *Metrics, logger *logrus.Logger) *FeedbackService {
	if sink == nil {
		sink = messaging.NopSink{}
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &FeedbackService{
		weights: store,
		sink:    sink,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// RecordFeedback stores the event, applies any adaptation rule and publishes
// it. Every step is attempted; failures are joined into the Outcome.
func (s *FeedbackService) RecordFeedback(ctx context.Context, event models.FeedbackEvent) (models.FeedbackEvent, Outcome) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.metrics.feedbackEvents.WithLabelValues(string(event.Action)).Inc()

	log := s.logger.WithFields(logrus.Fields{
		"user_id":      event.UserID,
		"candidate_id": event.Candidate.ID,
		"action":       event.Action,
	})

	var errs []error
	if err := s.weights.AppendFeedback(ctx, event); err != nil {
		errs = append(errs, fmt.Errorf("append feedback: %w", err))
	}

	if err := s.adapt(ctx, event, log); err != nil {
		errs = append(errs, err)
	}

	if err := s.sink.Record(ctx, analyticsFromFeedback(event)); err != nil {
		errs = append(errs, fmt.Errorf("publish feedback: %w", err))
	}

	outcome := succeeded("record_feedback")
	if len(errs) > 0 {
		outcome = failed("record_feedback", errors.Join(errs...))
	}
	outcome.Log(s.logger, logrus.Fields{"user_id": event.UserID})
	log.Info("Feedback recorded")
	return event, outcome
}

func (s *FeedbackService) adapt(ctx context.Context, event models.FeedbackEvent, log *logrus.Entry) error {
	current, err := weights.Active(ctx, s.weights, event.UserID)
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}

	adapted, applied := weights.Adapt(current, event, s.now())
	if len(applied) == 0 {
		return nil
	}
	if err := s.weights.Put(ctx, event.UserID, adapted); err != nil {
		return fmt.Errorf("store weights: %w", err)
	}

	log.WithFields(logrus.Fields{
		"rules":       applied,
		"performance": adapted.Performance,
		"specs":       adapted.Specs,
	}).Debug("Weight profile adapted")
	return nil
}

func analyticsFromFeedback(event models.FeedbackEvent) models.AnalyticsEvent {
	payload := map[string]interface{}{
		"feedback_id": event.ID,
		"price":       event.Candidate.Price,
		"brand":       event.Candidate.Brand,
	}
	if event.Sentiment != nil {
		payload["sentiment"] = string(*event.Sentiment)
	}
	return models.AnalyticsEvent{
		Type:      messaging.EventFeedback,
		UserID:    event.UserID,
		SessionID: event.SessionID,
		ItemIDs:   []string{event.Candidate.ID},
		Action:    string(event.Action),
		Payload:   payload,
		Timestamp: event.Timestamp,
	}
}
