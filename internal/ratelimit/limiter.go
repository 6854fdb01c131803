// Package ratelimit implements a fixed-window per-address request
// allowance. Denied requests must short-circuit before any expensive
// work; this is the primary defense against amplifying load onto the
// extraction engine.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Limiter grants capacity admissions per window per client address.
// Windows are fixed, measured from bucket creation or last reset; the
// minor burst at window boundaries is accepted for simplicity.
type Limiter struct {
	capacity int
	window   time.Duration
	idleTTL  time.Duration
	now      func() time.Time
	logger   *zap.Logger

	buckets sync.Map // address -> *bucket
}

type bucket struct {
	mu          sync.Mutex
	remaining   int
	windowStart time.Time
	lastSeen    time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock substitutes the time source; tests use a fake clock.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a Limiter admitting capacity requests per window per
// address. Buckets idle longer than idleTTL are evicted by Run. A
// non-positive idleTTL falls back to ten windows so Run's ticker always
// gets a positive interval.
func New(capacity int, window, idleTTL time.Duration, logger *zap.Logger, opts ...Option) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if idleTTL <= 0 {
		idleTTL = 10 * window
	}
	l := &Limiter{
		capacity: capacity,
		window:   window,
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger.Named("ratelimit"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a request from address is admitted, consuming one
// token when it is. Buckets are created lazily at full capacity.
func (l *Limiter) Allow(address string) bool {
	now := l.now()

	v, _ := l.buckets.LoadOrStore(address, &bucket{
		remaining:   l.capacity,
		windowStart: now,
	})
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.windowStart) >= l.window {
		b.remaining = l.capacity
		b.windowStart = now
	}
	b.lastSeen = now

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Run evicts idle buckets until ctx is cancelled. Eviction only resets an
// address to full capacity, same as first-seen.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-ctx.Done():
			return
		}
	}
}

func (l *Limiter) evictIdle() {
	now := l.now()
	evicted := 0

	l.buckets.Range(func(key, v any) bool {
		b := v.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastSeen) >= l.idleTTL
		b.mu.Unlock()
		if idle {
			l.buckets.Delete(key)
			evicted++
		}
		return true
	})

	if evicted > 0 {
		l.logger.Debug("evicted idle buckets", zap.Int("count", evicted))
	}
}
