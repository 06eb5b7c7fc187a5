package infra

import (
	"sync"
	"time"

	"tapgate/gating/domain"
)

// SystemClock usa o relógio do sistema no fuso Location (nil = UTC).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Today() domain.Day {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return domain.DayOf(time.Now().In(loc))
}

// FixedClock devolve um dia controlado. Útil para testes e replays.
type FixedClock struct {
	mu  sync.Mutex
	day domain.Day
}

func NewFixedClock(day domain.Day) *FixedClock {
	return &FixedClock{day: day}
}

func (c *FixedClock) Today() domain.Day {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

func (c *FixedClock) Set(day domain.Day) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = day
}

// Advance avança n dias.
func (c *FixedClock) Advance(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = domain.DayOf(c.day.Time().AddDate(0, 0, n))
}
