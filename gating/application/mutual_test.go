package application

import (
	"context"
	"testing"

	"tapgate/gating/domain"
	"tapgate/gating/infra"
)

func TestIsMutual_IsSymmetric(t *testing.T) {
	ctx := context.Background()
	ledger := infra.NewMemoryLedger()

	check := func(want bool) {
		t.Helper()
		ab, err := IsMutual(ctx, ledger, "alice", "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ba, err := IsMutual(ctx, ledger, "bob", "alice")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ab != ba || ab != want {
			t.Fatalf("expected mutual=%v both ways, got %v/%v", want, ab, ba)
		}
	}

	check(false)
	if _, err := ledger.Record(ctx, domain.Interaction{From: "alice", To: "bob", Kind: domain.KindTap}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	check(false)
	if _, err := ledger.Record(ctx, domain.Interaction{From: "bob", To: "alice", Kind: domain.KindWoof}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	check(true)
}

func TestVisibleSlice_KeepsOrder(t *testing.T) {
	items := []string{"a", "b", "c", "d"}

	visible, hidden := VisibleSlice(items, 2)
	if len(visible) != 2 || visible[0] != "a" || visible[1] != "b" || hidden != 2 {
		t.Fatalf("unexpected slice %v hidden=%d", visible, hidden)
	}

	visible, hidden = VisibleSlice(items, 10)
	if len(visible) != 4 || hidden != 0 {
		t.Fatalf("expected everything visible, got %v hidden=%d", visible, hidden)
	}

	visible, hidden = VisibleSlice(items, -1)
	if len(visible) != 0 || hidden != 4 {
		t.Fatalf("expected nothing visible, got %v hidden=%d", visible, hidden)
	}
}
