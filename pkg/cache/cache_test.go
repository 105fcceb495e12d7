package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a controllable Clock for testing time-dependent behavior.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTTLCache_GetSet(t *testing.T) {
	clock := newFakeClock()
	c := New[string, string](Config{Name: "test", Clock: clock})

	t.Run("missing key is absent", func(t *testing.T) {
		_, ok := c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("set then get within TTL", func(t *testing.T) {
		c.Set("k", "v", time.Second)
		got, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("set overwrites unconditionally", func(t *testing.T) {
		c.Set("k", "v1", time.Second)
		c.Set("k", "v2", time.Second)
		got, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "v2", got)
	})
}

func TestTTLCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](Config{Name: "test", Clock: clock})

	c.Set("k", 1, time.Second)

	// Exactly at the deadline the entry is still live; expiry requires
	// now > expiresAt.
	clock.Advance(time.Second)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, got)

	clock.Advance(time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)

	// The expired entry was physically removed on lookup.
	assert.Equal(t, 0, c.Len())

	// A set after expiry works independently of the dead entry.
	c.Set("k", 2, time.Second)
	got, ok = c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestTTLCache_LazyRemoval(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](Config{Name: "test", Clock: clock})

	c.Set("a", 1, time.Second)
	c.Set("b", 2, time.Second)
	clock.Advance(2 * time.Second)

	// Expired entries occupy memory until their key is looked up.
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestTTLCache_LRUEviction(t *testing.T) {
	clock := newFakeClock()
	c := New[int, string](Config{Name: "test", Clock: clock, MaxEntries: 3})

	c.Set(1, "one", time.Minute)
	c.Set(2, "two", time.Minute)
	c.Set(3, "three", time.Minute)

	// Touch 1 so 2 becomes the least recently used.
	_, ok := c.Get(1)
	require.True(t, ok)

	c.Set(4, "four", time.Minute)

	_, ok = c.Get(2)
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, k := range []int{1, 3, 4} {
		_, ok := c.Get(k)
		assert.True(t, ok, "key %d should survive eviction", k)
	}
}

func TestTTLCache_IntKeys(t *testing.T) {
	clock := newFakeClock()
	c := New[int, []string](Config{Name: "detail", Clock: clock})

	c.Set(603, []string{"The Matrix"}, 5*time.Minute)
	got, ok := c.Get(603)
	require.True(t, ok)
	assert.Equal(t, []string{"The Matrix"}, got)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int](Config{Name: "test"})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n, j, time.Minute)
				c.Get(n)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 32, c.Len())
}
