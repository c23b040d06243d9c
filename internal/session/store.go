// Package session stores conversation sessions behind a small interface so
// the orchestrator never depends on process-wide state.
package session

import (
	"context"
	"errors"

	"github.com/temcen/laptop-advisor/pkg/models"
)

var ErrNotFound = errors.New("session not found")

// Store keeps conversation sessions. Implementations return copies, so
// callers own what they get back until they Put it again.
type Store interface {
	Get(ctx context.Context, id string) (*models.ConversationSession, error)
	Put(ctx context.Context, s *models.ConversationSession) error
	Delete(ctx context.Context, id string) error
}

func clone(s *models.ConversationSession) *models.ConversationSession {
	out := *s
	out.Preferences = s.Preferences.Clone()
	return &out
}
