// Package application contém os casos de uso do gating: a política de tiers,
// o Engine (decisão allow/deny sobre contadores e ledger), o throttle de
// requisições e o limite de concorrência.
//
// Depende apenas do pacote domain e não conhece net/http nem drivers.
// Ex.: Engine.Decide(ctx, subject, action, dctx) devolve uma domain.Decision.
package application
