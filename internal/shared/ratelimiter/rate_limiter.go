// Package ratelimiter throttles outbound operations such as email sends.
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter limits how often an operation may run.
type Limiter interface {
	// Wait blocks until the operation may run or ctx is done.
	Wait(ctx context.Context) error
}

// RateLimiter allows at most limit operations per fixed interval window.
// It is safe for concurrent use.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	interval  time.Duration
	count     int
	lastReset time.Time
	now       func() time.Time
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter creates a RateLimiter. A limit below 1 is treated as 1.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// reserve takes a slot and returns how long the caller must wait before using it.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// Roll the window forward, releasing one limit's worth of slots per interval
	if elapsed := now.Sub(rl.lastReset); elapsed >= rl.interval {
		n := int(elapsed / rl.interval)
		rl.lastReset = rl.lastReset.Add(time.Duration(n) * rl.interval)
		rl.count = max(0, rl.count-n*rl.limit)
	}

	rl.count++
	window := (rl.count - 1) / rl.limit
	if window == 0 {
		return 0
	}
	return rl.lastReset.Add(time.Duration(window) * rl.interval).Sub(now)
}

// Wait blocks until the limit allows another operation. A reserved slot is
// not returned when ctx ends first.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.interval <= 0 {
		return nil
	}

	d := rl.reserve()
	if d <= 0 {
		return nil
	}

	slog.Warn("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval, "wait", d)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
