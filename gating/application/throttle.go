package application

import (
	"time"

	"tapgate/gating/domain"
)

// ThrottleService é o anti-abuso da API: token bucket por chave, independente
// dos limites diários de produto.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type ThrottleService struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

const defaultRetryAfter = time.Second

func (s ThrottleService) Decide(key string) domain.ThrottleDecision {
	if s.Store == nil || key == "" {
		return domain.ThrottleDecision{Allowed: true}
	}

	lim := s.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.ThrottleDecision{Allowed: true}
	}

	retry := s.RetryAfter
	if retry <= 0 {
		retry = defaultRetryAfter
	}
	return domain.ThrottleDecision{Allowed: false, RetryAfter: retry}
}
