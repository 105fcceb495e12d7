package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a controllable Clock for deterministic window tests.
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

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func TestSlidingWindow_LimitEnforcement(t *testing.T) {
	const (
		limit  = 10
		window = 10 * time.Second
	)

	clock := newFakeClock()
	algo := NewSlidingWindowAlgorithm(clock)
	store := NewInMemoryStore(InMemoryStoreConfig{})
	ctx := context.Background()

	// 10 requests within one second are all admitted.
	for i := 0; i < limit; i++ {
		decision, err := algo.IsAllowed(ctx, "203.0.113.7", store, limit, window)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d should be admitted", i+1)
		clock.Advance(100 * time.Millisecond)
	}

	// The 11th immediate request is denied.
	decision, err := algo.IsAllowed(ctx, "203.0.113.7", store, limit, window)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Greater(t, decision.RetryAfterSeconds(), int64(0))

	// After the window passes from the first admitted request, a new
	// request is admitted again.
	clock.Advance(window)
	decision, err = algo.IsAllowed(ctx, "203.0.113.7", store, limit, window)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestSlidingWindow_DeniedRequestsDoNotConsumeQuota(t *testing.T) {
	const (
		limit  = 2
		window = 10 * time.Second
	)

	clock := newFakeClock()
	algo := NewSlidingWindowAlgorithm(clock)
	store := NewInMemoryStore(InMemoryStoreConfig{})
	ctx := context.Background()

	for i := 0; i < limit; i++ {
		decision, err := algo.IsAllowed(ctx, "client", store, limit, window)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	// Hammer the limiter while saturated. None of these are recorded.
	for i := 0; i < 20; i++ {
		decision, err := algo.IsAllowed(ctx, "client", store, limit, window)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		clock.Advance(100 * time.Millisecond)
	}

	// Once both admitted requests age out, admission resumes immediately
	// because the denied attempts left nothing behind in the window.
	clock.Advance(window)
	decision, err := algo.IsAllowed(ctx, "client", store, limit, window)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestSlidingWindow_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	algo := NewSlidingWindowAlgorithm(clock)
	store := NewInMemoryStore(InMemoryStoreConfig{})
	ctx := context.Background()

	decision, err := algo.IsAllowed(ctx, "192.0.2.1", store, 1, 10*time.Second)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = algo.IsAllowed(ctx, "192.0.2.1", store, 1, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// A different client is unaffected.
	decision, err = algo.IsAllowed(ctx, "192.0.2.2", store, 1, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestSlidingWindow_RemainingCountsDown(t *testing.T) {
	clock := newFakeClock()
	algo := NewSlidingWindowAlgorithm(clock)
	store := NewInMemoryStore(InMemoryStoreConfig{})
	ctx := context.Background()

	for want := 2; want >= 0; want-- {
		decision, err := algo.IsAllowed(ctx, "client", store, 3, 10*time.Second)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
		assert.Equal(t, want, decision.Remaining)
	}
}

func TestSlidingWindow_ClockSkewProtection(t *testing.T) {
	clock := newFakeClock()
	algo := NewSlidingWindowAlgorithm(clock)
	store := NewInMemoryStore(InMemoryStoreConfig{})
	ctx := context.Background()

	decision, err := algo.IsAllowed(ctx, "client", store, 1, 10*time.Second)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	// Clock jumps backwards. The clamped timestamp keeps the recorded
	// request inside the window, so the client gains no quota.
	clock.Set(clock.Now().Add(-time.Hour))
	decision, err = algo.IsAllowed(ctx, "client", store, 1, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestSlidingWindow_ConcurrentRequestsRespectLimit(t *testing.T) {
	const limit = 10

	algo := NewSlidingWindowAlgorithm(&SystemClock{})
	store := NewInMemoryStore(InMemoryStoreConfig{})
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := algo.IsAllowed(ctx, "shared", store, limit, 10*time.Second)
			if err != nil {
				return
			}
			if decision.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed, "exactly limit requests may be admitted under concurrency")
}

func TestSlidingWindow_ClampStateDoesNotGrowWithKeyCardinality(t *testing.T) {
	const window = 10 * time.Second

	clock := newFakeClock()
	algo := NewSlidingWindowAlgorithm(clock)
	store := NewInMemoryStore(InMemoryStoreConfig{MaxKeys: 100})
	ctx := context.Background()

	// Flood the limiter with distinct keys. The store evicts down to its
	// cap; the clamp map accumulates every key for now.
	for i := 0; i < 5000; i++ {
		_, err := algo.IsAllowed(ctx, fmt.Sprintf("198.51.100.%d", i), store, 10, window)
		require.NoError(t, err)
	}

	// Once the whole flood ages out of the window, the next check sweeps
	// the stale clamp entries instead of retaining them forever.
	clock.Advance(window + time.Second)
	_, err := algo.IsAllowed(ctx, "fresh", store, 10, window)
	require.NoError(t, err)

	algo.mu.Lock()
	clampKeys := len(algo.lastTimestamps)
	algo.mu.Unlock()
	assert.Equal(t, 1, clampKeys, "only the active key may remain tracked")
}
