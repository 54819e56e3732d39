// Package ratelimit paces outbound API calls with a token bucket.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket. The bucket starts full; one token is added
// every refillEvery until it reaches capacity.
type Limiter struct {
	mu          sync.Mutex
	tokens      int
	capacity    int
	refillEvery time.Duration
	lastRefill  time.Time
}

func NewLimiter(capacity int, refillEvery time.Duration) *Limiter {
	return &Limiter{
		tokens:      capacity,
		capacity:    capacity,
		refillEvery: refillEvery,
		lastRefill:  time.Now(),
	}
}

// Allow consumes a token if one is available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens > 0 {
		l.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is consumed or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	pause := l.refillEvery / time.Duration(l.capacity)
	if pause <= 0 {
		pause = time.Millisecond
	}
	for {
		if l.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
}

// Available reports the tokens currently in the bucket.
func (l *Limiter) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens
}

// refill must be called with the mutex held.
func (l *Limiter) refill() {
	now := time.Now()
	added := int(now.Sub(l.lastRefill) / l.refillEvery)
	if added > 0 {
		l.tokens += added
		if l.tokens > l.capacity {
			l.tokens = l.capacity
		}
		l.lastRefill = now
	}
}

// Limiters groups the per-service buckets the analyzer talks to.
type Limiters struct {
	Catalog *Limiter
	Ebay    *Limiter
}

// NewDefaults returns conservative pacing for each upstream.
// The catalog API allows thousands of requests per hour; eBay search
// pages tolerate far less before challenging the client.
func NewDefaults() *Limiters {
	return &Limiters{
		Catalog: NewLimiter(10, 300*time.Millisecond),
		Ebay:    NewLimiter(3, 6*time.Second),
	}
}
