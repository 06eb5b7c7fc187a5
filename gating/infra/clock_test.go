package infra

import (
	"testing"
	"time"

	"tapgate/gating/domain"
)

func TestFixedClock_Advance(t *testing.T) {
	c := NewFixedClock("2026-02-28")
	c.Advance(1)
	if got := c.Today(); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
	c.Set("2026-12-31")
	c.Advance(1)
	if got := c.Today(); got != "2027-01-01" {
		t.Fatalf("expected 2027-01-01, got %s", got)
	}
}

func TestSystemClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*60*60)
	got := SystemClock{Location: loc}.Today()
	want := domain.DayOf(time.Now().In(loc))
	// tolera a virada do dia entre as duas leituras
	if got != want && got != domain.DayOf(time.Now().In(loc).Add(-time.Minute)) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if _, err := domain.ParseDay(string(got)); err != nil {
		t.Fatalf("expected ISO day, got %q", got)
	}
}
