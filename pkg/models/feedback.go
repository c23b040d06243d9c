package models

import "time"

type FeedbackAction string

const (
	ActionClicked   FeedbackAction = "clicked"
	ActionPurchased FeedbackAction = "purchased"
	ActionDismissed FeedbackAction = "dismissed"
	ActionCompared  FeedbackAction = "compared"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// FeedbackEvent records what a user did with a recommended candidate.
type FeedbackEvent struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id" validate:"max=128"`
	UserID    string           `json:"user_id" validate:"required,max=128"`
	Query     Preferences      `json:"query"`
	Candidate CandidateProduct `json:"candidate" validate:"required"`
	Action    FeedbackAction   `json:"action" validate:"required,oneof=clicked purchased dismissed compared"`
	Sentiment *Sentiment       `json:"sentiment,omitempty" validate:"omitempty,oneof=positive negative"`
	Timestamp time.Time        `json:"timestamp"`
}

// IsPositive reports whether the event expresses interest in the candidate.
func (e FeedbackEvent) IsPositive() bool {
	if e.Sentiment != nil {
		return *e.Sentiment == SentimentPositive
	}
	return e.Action == ActionClicked || e.Action == ActionPurchased
}

// AnalyticsEvent is the envelope published to analytics sinks.
type AnalyticsEvent struct {
	Type      string                 `json:"type"` // recommendation_served, feedback
	UserID    string                 `json:"user_id"`
	SessionID string                 `json:"session_id,omitempty"`
	ItemIDs   []string               `json:"item_ids,omitempty"`
	Action    string                 `json:"action,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
