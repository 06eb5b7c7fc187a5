package infra

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tapgate/gating/domain"
)

func TestMemoryLedger_RecordAssignsIDAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	id, err := l.Record(ctx, domain.Interaction{From: "alice", To: "bob", Kind: domain.KindTap})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(id), "ixn_") {
		t.Fatalf("expected ixn_ id, got %q", id)
	}

	_, err = l.Record(ctx, domain.Interaction{From: "alice", To: "bob", Kind: domain.KindTap})
	if !errors.Is(err, domain.ErrDuplicateInteraction) {
		t.Fatalf("expected ErrDuplicateInteraction, got %v", err)
	}
	if _, err := l.Record(ctx, domain.Interaction{From: "alice", To: "bob", Kind: domain.KindWoof}); err != nil {
		t.Fatalf("expected other kind to be accepted, got %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Len())
	}
}

func TestMemoryLedger_HasAnyIsDirected(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	_, _ = l.Record(ctx, domain.Interaction{From: "alice", To: "bob", Kind: domain.KindLike})

	if ok, _ := l.HasAny(ctx, "alice", "bob"); !ok {
		t.Fatalf("expected alice->bob")
	}
	if ok, _ := l.HasAny(ctx, "bob", "alice"); ok {
		t.Fatalf("expected no bob->alice")
	}
	if ok, _ := l.HasAny(ctx, "alice", "bob", domain.KindTap, domain.KindLike); !ok {
		t.Fatalf("expected match on kind filter")
	}
	if ok, _ := l.HasAny(ctx, "alice", "bob", domain.KindFlame); ok {
		t.Fatalf("expected no flame")
	}
}

func TestMemoryLedger_HistoryNewestFirstAndRestartable(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, _ = l.Record(ctx, domain.Interaction{From: "alice", To: "bob", Kind: domain.KindTap, At: base})
	_, _ = l.Record(ctx, domain.Interaction{From: "carol", To: "alice", Kind: domain.KindTap, At: base.Add(time.Minute)})
	_, _ = l.Record(ctx, domain.Interaction{From: "bob", To: "carol", Kind: domain.KindTap, At: base.Add(2 * time.Minute)})

	seq := l.History(ctx, "alice")
	collect := func() []domain.Interaction {
		var out []domain.Interaction
		for in, err := range seq {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out = append(out, in)
		}
		return out
	}

	first := collect()
	if len(first) != 2 || first[0].From != "carol" || first[1].From != "alice" {
		t.Fatalf("unexpected history: %+v", first)
	}

	_, _ = l.Record(ctx, domain.Interaction{From: "alice", To: "dave", Kind: domain.KindTap, At: base.Add(3 * time.Minute)})
	second := collect()
	if len(second) != 3 || second[0].To != "dave" {
		t.Fatalf("expected restarted sequence to see new entry first, got %+v", second)
	}
}

func TestMemoryLedger_IncomingAndEarlyStop(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	_, _ = l.Record(ctx, domain.Interaction{From: "bob", To: "alice", Kind: domain.KindTap})
	_, _ = l.Record(ctx, domain.Interaction{From: "carol", To: "alice", Kind: domain.KindLike})
	_, _ = l.Record(ctx, domain.Interaction{From: "alice", To: "bob", Kind: domain.KindTap})

	n := 0
	for in := range l.Incoming(ctx, "alice") {
		if in.To != "alice" {
			t.Fatalf("expected only incoming, got %+v", in)
		}
		n++
	}
	if n != 2 {
		t.Fatalf("expected 2 incoming, got %d", n)
	}

	n = 0
	for range l.Incoming(ctx, "alice") {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected early stop to be honored")
	}
}
