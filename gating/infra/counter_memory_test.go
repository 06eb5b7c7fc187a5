package infra

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"tapgate/gating/domain"
)

func TestMemoryCounterStore_IncrementIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCounterStore()
	key := domain.CounterKey{Subject: "alice", Kind: domain.CounterTap, Day: "2026-03-01"}

	if n, _ := s.Current(ctx, key); n != 0 {
		t.Fatalf("expected unseen key to read 0, got %d", n)
	}
	for i := 1; i <= 3; i++ {
		n, err := s.Increment(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != i {
			t.Fatalf("expected %d, got %d", i, n)
		}
	}
	if n, _ := s.Current(ctx, key); n != 3 {
		t.Fatalf("expected current 3, got %d", n)
	}
}

func TestMemoryCounterStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCounterStore()
	today := domain.CounterKey{Subject: "alice", Kind: domain.CounterTap, Day: "2026-03-01"}
	tomorrow := today
	tomorrow.Day = "2026-03-02"
	messages := today
	messages.Kind = domain.CounterMessage

	_, _ = s.Increment(ctx, today)
	if n, _ := s.Current(ctx, tomorrow); n != 0 {
		t.Fatalf("expected new day to start at 0, got %d", n)
	}
	if n, _ := s.Current(ctx, messages); n != 0 {
		t.Fatalf("expected other kind to start at 0, got %d", n)
	}
}

func TestMemoryCounterStore_IncrementBelowStopsAtMax(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCounterStore()
	key := domain.CounterKey{Subject: "alice", Kind: domain.CounterMessage, Day: "2026-03-01"}

	for i := 1; i <= 2; i++ {
		n, ok, err := s.IncrementBelow(ctx, key, 2)
		if err != nil || !ok || n != i {
			t.Fatalf("expected (%d, true), got (%d, %v, %v)", i, n, ok, err)
		}
	}
	n, ok, err := s.IncrementBelow(ctx, key, 2)
	if err != nil || ok || n != 2 {
		t.Fatalf("expected (2, false), got (%d, %v, %v)", n, ok, err)
	}

	zero := domain.CounterKey{Subject: "bob", Kind: domain.CounterTap, Day: "2026-03-01"}
	if _, ok, _ := s.IncrementBelow(ctx, zero, 0); ok {
		t.Fatalf("expected max=0 to never increment")
	}
}

func TestMemoryCounterStore_ConcurrentIncrementBelowNeverExceedsMax(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCounterStore()
	key := domain.CounterKey{Subject: "alice", Kind: domain.CounterTap, Day: "2026-03-01"}

	var granted atomic.Int64
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := s.IncrementBelow(ctx, key, 10); ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if granted.Load() != 10 {
		t.Fatalf("expected 10 grants, got %d", granted.Load())
	}
	if n, _ := s.Current(ctx, key); n != 10 {
		t.Fatalf("expected counter 10, got %d", n)
	}
}

func TestMemoryCounterStore_PruneDropsPastDays(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCounterStore()
	old := domain.CounterKey{Subject: "alice", Kind: domain.CounterTap, Day: "2026-02-28"}
	today := domain.CounterKey{Subject: "alice", Kind: domain.CounterTap, Day: "2026-03-01"}
	_, _ = s.Increment(ctx, old)
	_, _ = s.Increment(ctx, today)

	if removed := s.Prune("2026-03-01"); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if n, _ := s.Current(ctx, today); n != 1 {
		t.Fatalf("expected today's counter kept, got %d", n)
	}
}
