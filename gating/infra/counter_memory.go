package infra

import (
	"context"
	"sync"
	"time"

	"tapgate/gating/domain"
)

// MemoryCounterStore guarda os contadores em memória com um mutex.
// Útil para testes e desenvolvimento; não compartilha estado entre réplicas.
//
// A virada de dia é implícita (chave nova). Prune só libera memória.
type MemoryCounterStore struct {
	mu     sync.Mutex
	counts map[domain.CounterKey]int
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counts: make(map[domain.CounterKey]int)}
}

func (s *MemoryCounterStore) Current(_ context.Context, key domain.CounterKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

func (s *MemoryCounterStore) Increment(_ context.Context, key domain.CounterKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func (s *MemoryCounterStore) IncrementBelow(_ context.Context, key domain.CounterKey, max int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.counts[key]
	if n >= max {
		return n, false, nil
	}
	n++
	s.counts[key] = n
	return n, true, nil
}

// Prune remove contadores de dias anteriores a before. Devolve quantos saíram.
func (s *MemoryCounterStore) Prune(before domain.Day) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k := range s.counts {
		// ISO date: comparação lexicográfica == cronológica
		if k.Day < before {
			delete(s.counts, k)
			removed++
		}
	}
	return removed
}

// StartJanitor remove, a cada every, os contadores anteriores a clock.Today().
// Pare cancelando o contexto.
func (s *MemoryCounterStore) StartJanitor(ctx context.Context, clock domain.Clock, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Prune(clock.Today())
			}
		}
	}()
}
