package domain

import (
	"context"
	"time"
)

// Contratos do throttle de requisições da API (anti-abuso), separado dos
// limites diários de produto.

// Limiter decide se uma requisição pode passar agora.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (subject autenticado ou IP).
type LimiterStore interface {
	Get(key string) Limiter
}

// ThrottleDecision é o resultado do throttle.
type ThrottleDecision struct {
	Allowed bool
	// RetryAfter vai no header Retry-After quando bloquear. 0 = sem recomendação.
	RetryAfter time.Duration
}

// SlotPool representa um recurso de capacidade finita (requisições em voo).
//
// Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// O release devolvido deve ser chamado exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
