package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/laptop-advisor/pkg/models"
)

func TestResponseCache_GetSet(t *testing.T) {
	c := NewResponseCache(10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", models.TurnResponse{Response: "hello", SessionID: "s1"})
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Response)
}

func TestResponseCache_EvictsOldestInserted(t *testing.T) {
	c := NewResponseCache(2, time.Minute)

	c.Set("a", models.TurnResponse{Response: "a"})
	c.Set("b", models.TurnResponse{Response: "b"})
	// reading does not refresh insertion order
	_, _ = c.Get("a")
	c.Set("c", models.TurnResponse{Response: "c"})

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestResponseCache_ReinsertMovesToNewest(t *testing.T) {
	c := NewResponseCache(2, time.Minute)

	c.Set("a", models.TurnResponse{Response: "a1"})
	c.Set("b", models.TurnResponse{Response: "b"})
	c.Set("a", models.TurnResponse{Response: "a2"})
	c.Set("c", models.TurnResponse{Response: "c"})

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a2", got.Response)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestResponseCache_ExpiresLazily(t *testing.T) {
	c := NewResponseCache(10, 10*time.Millisecond)
	c.Set("k", models.TurnResponse{Response: "stale"})
	assert.Equal(t, 1, c.Len())

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", "b"), Key("a", "b"))
	assert.NotEqual(t, Key("ab", ""), Key("a", "b"))
	assert.Len(t, Key("x"), 64)
}
