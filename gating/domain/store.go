package domain

import (
	"context"
	"iter"
)

// CounterStore persiste contadores diários por (subject, kind, day).
//
// Implementações devem ser seguras para incrementos concorrentes na mesma
// chave: nenhum incremento pode ser perdido.
type CounterStore interface {
	// Current devolve 0 quando não há registro para a chave.
	Current(ctx context.Context, key CounterKey) (int, error)

	// Increment cria o registro (em 1) ou soma 1 de forma atômica.
	Increment(ctx context.Context, key CounterKey) (int, error)

	// IncrementBelow incrementa apenas se o valor atual for < max, numa única
	// operação atômica. Com ok=false nada muda e n é o valor atual.
	IncrementBelow(ctx context.Context, key CounterKey, max int) (n int, ok bool, err error)
}

// Ledger é o registro append-only de interações dirigidas.
type Ledger interface {
	// Record grava a interação e devolve o ID gerado. Uma segunda interação
	// com o mesmo (From, To, Kind) falha com ErrDuplicateInteraction.
	Record(ctx context.Context, in Interaction) (InteractionID, error)

	// HasAny diz se existe ao menos uma interação from->to. Sem kinds, vale
	// qualquer tipo.
	HasAny(ctx context.Context, from, to Subject, kinds ...InteractionKind) (bool, error)

	// History percorre as interações em que o subject é origem ou destino,
	// da mais recente para a mais antiga. Cada range consulta o estado atual.
	History(ctx context.Context, subject Subject) iter.Seq2[Interaction, error]

	// Incoming percorre as interações recebidas pelo subject (mais recentes primeiro).
	Incoming(ctx context.Context, subject Subject) iter.Seq2[Interaction, error]
}

// TierSource é o colaborador de identidade/perfil.
type TierSource interface {
	// TierOf falha com ErrUnknownSubject se o subject não existir.
	TierOf(ctx context.Context, subject Subject) (Tier, error)
}
