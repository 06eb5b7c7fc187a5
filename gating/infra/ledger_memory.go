package infra

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"tapgate/gating/domain"
)

type pairKey struct {
	from, to domain.Subject
}

// MemoryLedger é o ledger em memória. Não faz expiração; indicado para
// testes e desenvolvimento.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries []domain.Interaction
	byPair  map[pairKey]map[domain.InteractionKind]struct{}

	now func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		byPair: make(map[pairKey]map[domain.InteractionKind]struct{}),
		now:    time.Now,
	}
}

func (l *MemoryLedger) Record(_ context.Context, in domain.Interaction) (domain.InteractionID, error) {
	if in.At.IsZero() {
		in.At = l.now()
	}
	if in.ID == "" {
		in.ID = NewInteractionID()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pk := pairKey{in.From, in.To}
	kinds := l.byPair[pk]
	if _, dup := kinds[in.Kind]; dup {
		return "", domain.ErrDuplicateInteraction
	}
	if kinds == nil {
		kinds = make(map[domain.InteractionKind]struct{})
		l.byPair[pk] = kinds
	}
	kinds[in.Kind] = struct{}{}
	l.entries = append(l.entries, in)
	return in.ID, nil
}

func (l *MemoryLedger) HasAny(_ context.Context, from, to domain.Subject, kinds ...domain.InteractionKind) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	got := l.byPair[pairKey{from, to}]
	if len(kinds) == 0 {
		return len(got) > 0, nil
	}
	for _, k := range kinds {
		if _, ok := got[k]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (l *MemoryLedger) History(_ context.Context, subject domain.Subject) iter.Seq2[domain.Interaction, error] {
	return l.scan(func(in domain.Interaction) bool {
		return in.From == subject || in.To == subject
	})
}

func (l *MemoryLedger) Incoming(_ context.Context, subject domain.Subject) iter.Seq2[domain.Interaction, error] {
	return l.scan(func(in domain.Interaction) bool {
		return in.To == subject
	})
}

// scan tira um retrato a cada range, então a sequência é reiniciável e
// reflete o estado do momento da iteração.
func (l *MemoryLedger) scan(match func(domain.Interaction) bool) iter.Seq2[domain.Interaction, error] {
	return func(yield func(domain.Interaction, error) bool) {
		l.mu.RLock()
		out := make([]domain.Interaction, 0)
		for _, in := range l.entries {
			if match(in) {
				out = append(out, in)
			}
		}
		l.mu.RUnlock()

		slices.SortStableFunc(out, func(a, b domain.Interaction) int {
			return b.At.Compare(a.At)
		})
		for _, in := range out {
			if !yield(in, nil) {
				return
			}
		}
	}
}

// Len devolve o total de interações gravadas.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
