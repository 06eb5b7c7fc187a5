package infra

import (
	"context"
	"sync"

	"tapgate/gating/domain"
)

type Counters struct {
	Allowed int64
	Denied  int64
}

// MemoryStatsStore agrega decisões em memória (total, por ação, por motivo
// de negação e, opcionalmente, por subject). Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu       sync.Mutex
	total    Counters
	byAction map[domain.ActionType]Counters
	byReason map[domain.DenyReason]int64
	bySubj   map[domain.Subject]Counters

	trackSubjects bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackSubjects(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackSubjects = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byAction: make(map[domain.ActionType]Counters),
		byReason: make(map[domain.DenyReason]int64),
		bySubj:   make(map[domain.Subject]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func bump(c Counters, allowed bool) Counters {
	if allowed {
		c.Allowed++
	} else {
		c.Denied++
	}
	return c
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = bump(s.total, ev.Allowed)
	s.byAction[ev.Action] = bump(s.byAction[ev.Action], ev.Allowed)
	if !ev.Allowed {
		s.byReason[ev.Reason]++
	}
	if s.trackSubjects && ev.Subject != "" {
		s.bySubj[ev.Subject] = bump(s.bySubj[ev.Subject], ev.Allowed)
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByAction() map[domain.ActionType]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.ActionType]Counters, len(s.byAction))
	for k, v := range s.byAction {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) ByReason() map[domain.DenyReason]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.DenyReason]int64, len(s.byReason))
	for k, v := range s.byReason {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) BySubject() map[domain.Subject]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.Subject]Counters, len(s.bySubj))
	for k, v := range s.bySubj {
		out[k] = v
	}
	return out
}
