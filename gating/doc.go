// Package gating expõe o engine de gating (limites freemium, taps, mensagens)
// via HTTP (net/http + chi).
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (TierPolicy, Engine, throttle, concorrência)
//   - infra: implementações concretas (memória, Redis, Postgres, token bucket, semáforo)
//   - gating (este pacote): router, handlers, middlewares e tradução para status/JSON
//
// Fluxo de uma requisição:
//
//  1. Request ID, access log, CORS
//  2. Limite de concorrência (503 sem vaga)
//  3. Autenticação por bearer JWT (sub = subject)
//  4. Throttle por subject (429 + Retry-After)
//  5. Handler: resolve o tier pelo TierSource e chama Engine.Decide
//
// Negações de política (daily_limit_reached, already_tapped, not_eligible)
// viram 429/409/403 com o motivo no corpo; falhas de store viram 503.
package gating
