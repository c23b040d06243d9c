package weights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// RedisClient is the subset of go-redis used here; *redis.Client satisfies it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

type RedisStore struct {
	client     RedisClient
	maxHistory int
}

func NewRedisStore(client RedisClient, maxHistory int) *RedisStore {
	return &RedisStore{client: client, maxHistory: maxHistory}
}

func profileKey(userID string) string { return "weights:" + userID }
func historyKey(userID string) string { return "feedback:" + userID }

func (r *RedisStore) Get(ctx context.Context, userID string) (models.WeightProfile, bool, error) {
	data, err := r.client.Get(ctx, profileKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return models.WeightProfile{}, false, nil
	}
	if err != nil {
		return models.WeightProfile{}, false, fmt.Errorf("failed to get weight profile: %w", err)
	}

	var profile models.WeightProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return models.WeightProfile{}, false, fmt.Errorf("failed to unmarshal weight profile: %w", err)
	}
	return profile, true, nil
}

// Put stores the profile without expiry; profiles are never deleted.
func (r *RedisStore) Put(ctx context.Context, userID string, profile models.WeightProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal weight profile: %w", err)
	}
	if err := r.client.Set(ctx, profileKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store weight profile: %w", err)
	}
	return nil
}

func (r *RedisStore) AppendFeedback(ctx context.Context, event models.FeedbackEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback event: %w", err)
	}
	key := historyKey(event.UserID)
	if err := r.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to append feedback: %w", err)
	}
	if r.maxHistory > 0 {
		if err := r.client.LTrim(ctx, key, int64(-r.maxHistory), -1).Err(); err != nil {
			return fmt.Errorf("failed to trim feedback history: %w", err)
		}
	}
	return nil
}

func (r *RedisStore) History(ctx context.Context, userID string) ([]models.FeedbackEvent, error) {
	items, err := r.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback history: %w", err)
	}

	events := make([]models.FeedbackEvent, 0, len(items))
	for _, item := range items {
		var event models.FeedbackEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			// Skip corrupt entries rather than losing the whole history.
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
