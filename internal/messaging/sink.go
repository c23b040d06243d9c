// Package messaging publishes analytics and feedback events to external sinks.
package messaging

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/temcen/laptop-advisor/pkg/models"
)

const (
	EventRecommendationServed = "recommendation_served"
	EventFeedback             = "feedback"
)

// Sink records analytics events. Callers treat failures as non-fatal.
type Sink interface {
	Record(ctx context.Context, event models.AnalyticsEvent) error
}

// MultiSink fans an event out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, event models.AnalyticsEvent) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes events to the structured log.
type LogSink struct {
	logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, event models.AnalyticsEvent) error {
	s.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"user_id":    event.UserID,
		"session_id": event.SessionID,
		"item_ids":   event.ItemIDs,
		"action":     event.Action,
	}).Info("Analytics event")
	return nil
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Record(context.Context, models.AnalyticsEvent) error { return nil }
