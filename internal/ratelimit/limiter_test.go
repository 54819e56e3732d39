package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowDrainsBucket(t *testing.T) {
	l := NewLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("token %d should be available", i)
		}
	}
	if l.Allow() {
		t.Error("bucket should be empty")
	}
	if got := l.Available(); got != 0 {
		t.Errorf("Available() = %d, want 0", got)
	}
}

func TestLimiterRefills(t *testing.T) {
	l := NewLimiter(2, 10*time.Millisecond)

	l.Allow()
	l.Allow()
	if l.Allow() {
		t.Fatal("bucket should be drained")
	}

	time.Sleep(25 * time.Millisecond)
	if !l.Allow() {
		t.Error("token should have refilled")
	}
}

func TestLimiterRefillCapsAtCapacity(t *testing.T) {
	l := NewLimiter(2, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if got := l.Available(); got != 2 {
		t.Errorf("Available() = %d, want capacity 2", got)
	}
}

func TestWaitReturnsWhenTokenFree(t *testing.T) {
	l := NewLimiter(1, 5*time.Millisecond)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := NewLimiter(1, time.Hour)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Wait = %v, want DeadlineExceeded", err)
	}
}

func TestNewDefaults(t *testing.T) {
	limiters := NewDefaults()
	if limiters.Catalog == nil || limiters.Ebay == nil {
		t.Fatal("defaults should populate every limiter")
	}
	if !limiters.Catalog.Allow() {
		t.Error("catalog bucket should start full")
	}
}
