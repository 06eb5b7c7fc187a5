// Package domain define os tipos e contratos do gating (limites por plano,
// contadores diários, ledger de interações e decisões).
//
// Este pacote não depende de net/http nem de drivers (Redis, Postgres).
// A intenção é permitir testes de unidade puros e manter as regras de
// negócio longe dos detalhes de infraestrutura.
package domain
