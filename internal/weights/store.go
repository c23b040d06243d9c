// Package weights keeps per-user scoring weight profiles and feedback history.
package weights

import (
	"context"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// Store persists weight profiles and the feedback history that drives them.
type Store interface {
	// Get returns the user's learned profile; ok is false for unknown users.
	Get(ctx context.Context, userID string) (profile models.WeightProfile, ok bool, err error)
	Put(ctx context.Context, userID string, profile models.WeightProfile) error
	AppendFeedback(ctx context.Context, event models.FeedbackEvent) error
	History(ctx context.Context, userID string) ([]models.FeedbackEvent, error)
}

// Active returns the learned profile for userID, or the default profile.
func Active(ctx context.Context, store Store, userID string) (models.WeightProfile, error) {
	profile, ok, err := store.Get(ctx, userID)
	if err != nil {
		return models.DefaultWeightProfile(), err
	}
	if !ok {
		return models.DefaultWeightProfile(), nil
	}
	return profile, nil
}
