package ratelimiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, interval)
	rl.now = clock.Now
	rl.lastReset = clock.Now()
	return rl, clock
}

func TestRateLimiter_Reserve(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(2, time.Minute)

	assert.Zero(t, rl.reserve())
	assert.Zero(t, rl.reserve())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 50*time.Second, rl.reserve(), "third call waits for the next window")
	assert.Equal(t, 50*time.Second, rl.reserve())
	assert.Equal(t, 110*time.Second, rl.reserve(), "fifth call waits two windows")

	clock.Advance(50 * time.Second)
	// Slots 3 and 4 now belong to the current window, slot 5 to the next
	assert.Equal(t, 60*time.Second, rl.reserve())
}

func TestRateLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, time.Minute)

	assert.Zero(t, rl.reserve())
	clock.Advance(3 * time.Hour)
	assert.Zero(t, rl.reserve(), "an idle limiter starts fresh")
	assert.Equal(t, time.Minute, rl.reserve())
}

func TestNewRateLimiter_MinimumLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Minute)

	assert.Equal(t, 1, rl.limit)
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, rl.Wait(ctx))
	require.NoError(t, rl.Wait(ctx))

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRateLimiter_Wait_ContextCancelled(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Wait_Concurrent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rl.Wait(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, rl.count)
}
