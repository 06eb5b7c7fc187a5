package infra

import (
	"context"
	"sync"

	"tapgate/gating/domain"
)

// MemoryTierDirectory é o colaborador de identidade em memória.
type MemoryTierDirectory struct {
	mu    sync.RWMutex
	tiers map[domain.Subject]domain.Tier
}

func NewMemoryTierDirectory(seed map[domain.Subject]domain.Tier) *MemoryTierDirectory {
	d := &MemoryTierDirectory{tiers: make(map[domain.Subject]domain.Tier, len(seed))}
	for s, t := range seed {
		d.tiers[s] = t
	}
	return d
}

func (d *MemoryTierDirectory) TierOf(_ context.Context, subject domain.Subject) (domain.Tier, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tiers[subject]
	if !ok {
		return "", domain.ErrUnknownSubject
	}
	return t, nil
}

func (d *MemoryTierDirectory) SetTier(_ context.Context, subject domain.Subject, tier domain.Tier) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tiers[subject] = tier
	return nil
}
