// Package cache holds the bounded response cache used by the conversation flow.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/temcen/laptop-advisor/pkg/models"
)

// ResponseCache is a bounded TTL cache of turn responses. Once capacity is
// exceeded the oldest inserted key is dropped. Expiry is checked lazily on read.
type ResponseCache struct {
	mu       sync.Mutex
	items    *gocache.Cache
	order    *list.List
	index    map[string]*list.Element
	capacity int
}

func NewResponseCache(capacity int, ttl time.Duration) *ResponseCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ResponseCache{
		// no janitor: expired entries are only noticed on Get or evicted by age
		items:    gocache.New(ttl, 0),
		order:    list.New(),
		index:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

// Key hashes the parts into a fixed-length cache key.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

func (c *ResponseCache) Get(key string) (models.TurnResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if x, found := c.items.Get(key); found {
		return x.(models.TurnResponse), true
	}
	c.forget(key)
	return models.TurnResponse{}, false
}

func (c *ResponseCache) Set(key string, resp models.TurnResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.forget(key)
	c.items.Set(key, resp, gocache.DefaultExpiration)
	c.index[key] = c.order.PushBack(key)

	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.forget(oldest.Value.(string))
	}
}

// Len is the number of tracked keys, including expired ones not yet read.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *ResponseCache) forget(key string) {
	if el, ok := c.index[key]; ok {
		c.order.Remove(el)
		delete(c.index, key)
	}
	c.items.Delete(key)
}
