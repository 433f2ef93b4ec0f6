// Package ratelimit implements the dual (read/write) per-table token
// bucket limiter, built on the mutex-guarded shared-state idiom used
// elsewhere in this module and generalized to a smoothed token bucket
// supporting consume/update-limit/record-actual.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is the contract of one direction's (read or write) per-table
// limiter.
type Limiter interface {
	// Consume blocks until estimatedUnits can be acquired or ctx's
	// deadline/cancellation fires, whichever comes first. It returns
	// the elapsed wait.
	Consume(ctx context.Context, estimatedUnits float64) (time.Duration, error)
	UpdateLimit(unitsPerSecond float64)
	RecordActual(actualUnits float64)
}

// TokenBucket is the default Limiter: a smoothed token bucket that
// refills continuously at unitsPerSecond, capped at a burst of one
// second's worth of units.
type TokenBucket struct {
	mu sync.Mutex
	unitsPerSecond float64
	tokens float64
	lastRefill time.Time
	percent float64
}

// NewTokenBucket builds a bucket starting full, scaled by percent
// (0 < percent <= 100).
func NewTokenBucket(unitsPerSecond float64, percent float64) *TokenBucket {
	if percent <= 0 {
		percent = 100
	}
	effective := unitsPerSecond * percent / 100
	return &TokenBucket{
		unitsPerSecond: effective,
		tokens: effective,
		lastRefill: time.Now(),
		percent: percent,
	}
}

func (b *TokenBucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.unitsPerSecond
	if b.tokens > b.unitsPerSecond {
		b.tokens = b.unitsPerSecond
	}
	b.lastRefill = now
}

// Consume blocks (via a cancelable sleep) until estimatedUnits are
// available, honoring ctx cancellation while it waits.
func (b *TokenBucket) Consume(ctx context.Context, estimatedUnits float64) (time.Duration, error) {
	start := time.Now()
	for {
		var wait time.Duration
		b.mu.Lock()
		now := time.Now()
		b.refillLocked(now)
		if b.tokens >= estimatedUnits {
			b.tokens -= estimatedUnits
			b.mu.Unlock()
			return time.Since(start), nil
		}
		deficit := estimatedUnits - b.tokens
		if b.unitsPerSecond > 0 {
			wait = time.Duration(deficit / b.unitsPerSecond * float64(time.Second))
		} else {
			wait = time.Second
		}
		b.mu.Unlock()

		if wait <= 0 {
			wait = time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return time.Since(start), ctx.Err()
		case <-timer.C:
		}
	}
}

// UpdateLimit resets the refill rate from a fresh table description
//, preserving the configured percent scaling.
func (b *TokenBucket) UpdateLimit(unitsPerSecond float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unitsPerSecond = unitsPerSecond * b.percent / 100
	if b.tokens > b.unitsPerSecond {
		b.tokens = b.unitsPerSecond
	}
}

// RecordActual subtracts any additional consumption beyond the
// estimate already deducted by Consume.
func (b *TokenBucket) RecordActual(actualUnits float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	b.refillLocked(now)
	b.tokens -= actualUnits
	// Tokens are allowed to go negative: the next Consume call will
	// simply wait longer, which is how a burst above the estimate gets
	// paid back over a window.
}
