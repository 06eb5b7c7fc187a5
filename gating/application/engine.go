package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tapgate/gating/domain"

	"github.com/rs/zerolog"
)

// Engine concentra a regra de gating (freemium): visibilidade de perfis,
// limite diário de taps e mensagens e elegibilidade por mutualidade.
//
// Ele não guarda estado: decide sobre os stores injetados. Negações voltam
// como Decision, nunca como erro. Erros são apenas falhas de colaborador
// (ErrStorageUnavailable etc.) e são propagados sem fallback para allow.
//
// O Engine nunca segura lock entre chamadas de store; a atomicidade do
// check-then-increment fica no CounterStore (IncrementBelow).
type Engine struct {
	Policy   TierPolicy
	Counters domain.CounterStore
	Ledger   domain.Ledger
	Clock    domain.Clock

	// Stats é opcional (best-effort).
	Stats domain.StatsStore
	// Logger é opcional; nil = silencioso.
	Logger *zerolog.Logger

	// SeparateLikeBucket conta "like" num balde próprio em vez de dividir o
	// balde de "tap". O teto é o mesmo MaxDailyTaps.
	SeparateLikeBucket bool

	// Now carimba as interações. nil = time.Now.
	Now func() time.Time
}

// Decide avalia a ação do subject. dctx.Tier é obrigatório.
func (e Engine) Decide(ctx context.Context, subject domain.Subject, action domain.Action, dctx domain.DecisionContext) (domain.Decision, error) {
	limits, err := e.Policy.LimitsFor(dctx.Tier)
	if err != nil {
		return domain.Decision{}, err
	}

	var dec domain.Decision
	switch action.Type {
	case domain.ActionViewProfiles:
		dec = visibility(action.CandidateCount, limits)
	case domain.ActionSendTap:
		dec, err = e.sendTap(ctx, subject, action, limits)
	case domain.ActionSendMessage:
		dec, err = e.sendMessage(ctx, subject, action, limits, dctx)
	default:
		return domain.Decision{}, fmt.Errorf("%w: unknown action type %q", domain.ErrInvalidAction, action.Type)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidAction) {
			e.logger().Error().Err(err).
				Str("subject", string(subject)).
				Str("action", string(action.Type)).
				Msg("gating decision failed")
		}
		return domain.Decision{}, err
	}

	e.recordStats(ctx, subject, action.Type, dctx.Tier, dec)
	return dec, nil
}

func visibility(candidates int, limits domain.TierLimits) domain.Decision {
	if candidates < 0 {
		candidates = 0
	}
	visible := min(candidates, limits.MaxVisibleProfiles)
	if visible < 0 {
		visible = 0
	}
	dec := domain.Allow()
	dec.VisibleCount = visible
	dec.HiddenCount = candidates - visible
	return dec
}

func (e Engine) sendTap(ctx context.Context, subject domain.Subject, action domain.Action, limits domain.TierLimits) (domain.Decision, error) {
	if err := validateTarget(subject, action.To); err != nil {
		return domain.Decision{}, err
	}
	kind := action.Kind
	if kind == "" {
		kind = domain.KindTap
	}

	key := domain.CounterKey{Subject: subject, Kind: e.counterKindFor(kind), Day: e.Clock.Today()}
	capped := !limits.UnlimitedLikes && limits.MaxDailyTaps.Bounded()

	// (a) teto diário
	if capped {
		n, err := e.Counters.Current(ctx, key)
		if err != nil {
			return domain.Decision{}, fmt.Errorf("read tap counter: %w", err)
		}
		if n >= int(limits.MaxDailyTaps) {
			return limitReached(n), nil
		}
	}

	// (b) no máximo um sinal por par dirigido; repetir não consome unidade
	dup, err := e.Ledger.HasAny(ctx, subject, action.To, sameSignal(kind)...)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("check previous tap: %w", err)
	}
	if dup {
		return domain.Deny(domain.ReasonAlreadyTapped), nil
	}

	reverse, err := e.Ledger.HasAny(ctx, action.To, subject)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("check reverse tap: %w", err)
	}

	// (c) consome a unidade e grava
	var n int
	remaining := int(domain.Unlimited)
	if capped {
		var ok bool
		n, ok, err = e.Counters.IncrementBelow(ctx, key, int(limits.MaxDailyTaps))
		if err != nil {
			return domain.Decision{}, fmt.Errorf("increment tap counter: %w", err)
		}
		if !ok {
			return limitReached(n), nil
		}
		remaining = limits.MaxDailyTaps.Remaining(n)
	} else {
		n, err = e.Counters.Increment(ctx, key)
		if err != nil {
			return domain.Decision{}, fmt.Errorf("increment tap counter: %w", err)
		}
	}

	id, err := e.Ledger.Record(ctx, domain.Interaction{
		From: subject,
		To:   action.To,
		Kind: kind,
		At:   e.now(),
	})
	if errors.Is(err, domain.ErrDuplicateInteraction) {
		// corrida com outro envio do mesmo par; o ledger manteve só um registro
		e.logger().Debug().
			Str("subject", string(subject)).
			Str("to", string(action.To)).
			Msg("concurrent duplicate tap rejected by ledger")
		return domain.Deny(domain.ReasonAlreadyTapped), nil
	}
	if err != nil {
		return domain.Decision{}, fmt.Errorf("record interaction: %w", err)
	}

	dec := domain.Allow()
	dec.BecameMutual = reverse
	dec.InteractionID = id
	dec.Count = n
	dec.Remaining = remaining
	return dec, nil
}

func (e Engine) sendMessage(ctx context.Context, subject domain.Subject, action domain.Action, limits domain.TierLimits, dctx domain.DecisionContext) (domain.Decision, error) {
	if err := validateTarget(subject, action.To); err != nil {
		return domain.Decision{}, err
	}

	eligible := limits.CanMessageAnyone
	if !eligible && dctx.RecipientTier != "" {
		rl, err := e.Policy.LimitsFor(dctx.RecipientTier)
		if err != nil {
			return domain.Decision{}, err
		}
		eligible = rl.CanMessageAnyone
	}
	if !eligible {
		mutual, err := IsMutual(ctx, e.Ledger, subject, action.To)
		if err != nil {
			return domain.Decision{}, fmt.Errorf("check mutual: %w", err)
		}
		if !mutual {
			return domain.Deny(domain.ReasonNotEligible), nil
		}
	}

	// o registro da mensagem em si é do colaborador de mensagens; aqui só o contador
	if !limits.MaxDailyMessages.Bounded() {
		dec := domain.Allow()
		dec.Remaining = int(domain.Unlimited)
		return dec, nil
	}

	key := domain.CounterKey{Subject: subject, Kind: domain.CounterMessage, Day: e.Clock.Today()}
	n, ok, err := e.Counters.IncrementBelow(ctx, key, int(limits.MaxDailyMessages))
	if err != nil {
		return domain.Decision{}, fmt.Errorf("increment message counter: %w", err)
	}
	if !ok {
		return limitReached(n), nil
	}

	dec := domain.Allow()
	dec.Count = n
	dec.Remaining = limits.MaxDailyMessages.Remaining(n)
	return dec, nil
}

func limitReached(count int) domain.Decision {
	dec := domain.Deny(domain.ReasonDailyLimitReached)
	dec.Count = count
	return dec
}

func validateTarget(subject, to domain.Subject) error {
	if to == "" {
		return fmt.Errorf("%w: missing recipient", domain.ErrInvalidAction)
	}
	if to == subject {
		return fmt.Errorf("%w: cannot target self", domain.ErrInvalidAction)
	}
	return nil
}

// sameSignal define o que conta como "já enviado": tap e like são o mesmo
// sinal de interesse; woof e flame valem por tipo.
func sameSignal(kind domain.InteractionKind) []domain.InteractionKind {
	switch kind {
	case domain.KindTap, domain.KindLike:
		return []domain.InteractionKind{domain.KindTap, domain.KindLike}
	}
	return []domain.InteractionKind{kind}
}

func (e Engine) counterKindFor(kind domain.InteractionKind) domain.CounterKind {
	if kind == domain.KindLike && e.SeparateLikeBucket {
		return domain.CounterLike
	}
	return domain.CounterTap
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) logger() *zerolog.Logger {
	if e.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return e.Logger
}

func (e Engine) recordStats(ctx context.Context, subject domain.Subject, action domain.ActionType, tier domain.Tier, dec domain.Decision) {
	if e.Stats == nil {
		return
	}
	err := e.Stats.Record(ctx, domain.StatsEvent{
		Subject: subject,
		Action:  action,
		Tier:    tier,
		Allowed: dec.Allowed,
		Reason:  dec.Reason,
		At:      e.now(),
	})
	if err != nil {
		e.logger().Warn().Err(err).Msg("stats record failed")
	}
}
