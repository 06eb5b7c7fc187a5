package infra

import (
	"context"
	"testing"
	"time"
)

func TestBucketStore_GetSameKeyReturnsSameLimiter(t *testing.T) {
	s := NewBucketStore(10, 1)

	l1 := s.Get("subject:alice")
	l2 := s.Get("subject:alice")
	if l1 != l2 {
		t.Fatalf("expected same limiter for same key")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", s.Len())
	}
}

func TestBucketStore_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	s := NewBucketStore(0.02, 1)

	lim := s.Get("subject:alice")
	if !lim.Allow() {
		t.Fatalf("expected first Allow to be true")
	}
	if lim.Allow() {
		t.Fatalf("expected second immediate Allow to be false (burst=1)")
	}
	if !s.Get("subject:bob").Allow() {
		t.Fatalf("expected other key to have its own bucket")
	}
}

func TestBucketStore_CleanupRemovesIdleEntries(t *testing.T) {
	s := NewBucketStore(10, 1, WithIdleTTL(2*time.Millisecond), WithCleanupEvery(0))

	before := s.Get("subject:alice")
	time.Sleep(4 * time.Millisecond)

	s.Cleanup()

	after := s.Get("subject:alice")
	if before == after {
		t.Fatalf("expected limiter to be recreated after cleanup")
	}
}

func TestBucketStore_JanitorDisabledWithZeroInterval(t *testing.T) {
	s := NewBucketStore(10, 1, WithCleanupEvery(0))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx)
	s.Get("k")
	if s.Len() != 1 {
		t.Fatalf("expected key kept")
	}
}
