package domain

import (
	"context"
	"time"
)

// StatsEvent representa uma decisão do engine para fins de estatística.
//
// Observação: cuidado com cardinalidade. Subject só deve ir para a base se
// a implementação tiver controle (TTL, opt-in).
type StatsEvent struct {
	Subject Subject
	Action  ActionType
	Tier    Tier
	Allowed bool
	Reason  DenyReason

	At time.Time
}

// StatsStore é a estratégia de persistência das estatísticas de decisão.
//
// O chamador trata erro como best-effort (não derruba a decisão).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
