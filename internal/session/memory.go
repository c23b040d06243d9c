package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// MemoryStore keeps sessions in process; a session expires ttl after its last Put.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, cleanupInterval)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.ConversationSession, error) {
	if x, found := m.cache.Get(id); found {
		return clone(x.(*models.ConversationSession)), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Put(_ context.Context, s *models.ConversationSession) error {
	m.cache.Set(s.ID, clone(s), cache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

// Len reports how many sessions are held, expired ones included until cleanup.
func (m *MemoryStore) Len() int {
	return m.cache.ItemCount()
}
