package weights

import (
	"context"
	"sync"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu         sync.RWMutex
	profiles   map[string]models.WeightProfile
	history    map[string][]models.FeedbackEvent
	maxHistory int
}

func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		profiles:   make(map[string]models.WeightProfile),
		history:    make(map[string][]models.FeedbackEvent),
		maxHistory: maxHistory,
	}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (models.WeightProfile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[userID]
	return profile, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, userID string, profile models.WeightProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = profile
	return nil
}

func (m *MemoryStore) AppendFeedback(_ context.Context, event models.FeedbackEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := append(m.history[event.UserID], event)
	if m.maxHistory > 0 && len(events) > m.maxHistory {
		events = events[len(events)-m.maxHistory:]
	}
	m.history[event.UserID] = events
	return nil
}

func (m *MemoryStore) History(_ context.Context, userID string) ([]models.FeedbackEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.FeedbackEvent(nil), m.history[userID]...), nil
}
