package domain

import (
	"fmt"
	"strings"
	"time"
)

// InteractionKind é o tipo de sinal enviado de um subject para outro.
type InteractionKind string

const (
	KindTap   InteractionKind = "tap"
	KindLike  InteractionKind = "like"
	KindWoof  InteractionKind = "woof"
	KindFlame InteractionKind = "flame"
)

func ParseInteractionKind(s string) (InteractionKind, error) {
	k := InteractionKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindTap, KindLike, KindWoof, KindFlame:
		return k, nil
	case "":
		return KindTap, nil
	}
	return "", fmt.Errorf("%w: unknown interaction kind %q", ErrInvalidAction, s)
}

// InteractionID é gerado pelo ledger no append.
type InteractionID string

// Interaction é um registro append-only: criado uma vez por envio permitido,
// nunca alterado, nunca removido por este pacote.
type Interaction struct {
	ID   InteractionID
	From Subject
	To   Subject
	Kind InteractionKind
	At   time.Time
}

// CounterKind identifica o balde de contagem diária.
type CounterKind string

const (
	CounterTap     CounterKind = "tap"
	CounterLike    CounterKind = "like"
	CounterMessage CounterKind = "message"
)

// CounterKey é a chave composta de um contador de uso.
type CounterKey struct {
	Subject Subject
	Kind    CounterKind
	Day     Day
}

func (k CounterKey) String() string {
	return string(k.Subject) + ":" + string(k.Kind) + ":" + string(k.Day)
}
