package application

import (
	"context"

	"tapgate/gating/domain"
)

const defaultListLimit = 50

// CounterUsage é o uso de hoje de um balde.
type CounterUsage struct {
	Kind      domain.CounterKind
	Used      int
	Limit     domain.Limit
	Remaining int
}

// Usage é o retrato diário de um subject.
type Usage struct {
	Subject  domain.Subject
	Tier     domain.Tier
	Day      domain.Day
	Counters []CounterUsage
}

// Usage lê os contadores de hoje. Falha fechada: erro de store vira erro.
func (e Engine) Usage(ctx context.Context, subject domain.Subject, tier domain.Tier) (Usage, error) {
	limits, err := e.Policy.LimitsFor(tier)
	if err != nil {
		return Usage{}, err
	}

	tapLimit := limits.MaxDailyTaps
	if limits.UnlimitedLikes {
		tapLimit = domain.Unlimited
	}
	type bucket struct {
		kind  domain.CounterKind
		limit domain.Limit
	}
	buckets := []bucket{
		{domain.CounterTap, tapLimit},
		{domain.CounterMessage, limits.MaxDailyMessages},
	}
	if e.SeparateLikeBucket {
		buckets = append(buckets, bucket{domain.CounterLike, tapLimit})
	}

	u := Usage{Subject: subject, Tier: tier, Day: e.Clock.Today()}
	for _, b := range buckets {
		n, err := e.Counters.Current(ctx, domain.CounterKey{Subject: subject, Kind: b.kind, Day: u.Day})
		if err != nil {
			return Usage{}, err
		}
		u.Counters = append(u.Counters, CounterUsage{
			Kind:      b.kind,
			Used:      n,
			Limit:     b.limit,
			Remaining: b.limit.Remaining(n),
		})
	}
	return u, nil
}

// History lista até limit interações do subject, mais recentes primeiro.
//
// Leitura não monetizada: falha de store degrada para lista vazia com warning.
func (e Engine) History(ctx context.Context, subject domain.Subject, limit int) []domain.Interaction {
	if limit <= 0 {
		limit = defaultListLimit
	}
	out := make([]domain.Interaction, 0, min(limit, defaultListLimit))
	for in, err := range e.Ledger.History(ctx, subject) {
		if err != nil {
			e.logger().Warn().Err(err).Str("subject", string(subject)).Msg("history unavailable, returning empty list")
			return []domain.Interaction{}
		}
		out = append(out, in)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Likers é a visão "quem curtiu você".
type Likers struct {
	Count int
	// Revealed indica que o tier permite ver quem curtiu (SeeWhoLiked).
	Revealed bool
	Subjects []domain.Subject
}

// Likers conta os subjects distintos que enviaram tap/like ao subject.
// As identidades só são devolvidas quando o tier tem SeeWhoLiked.
// Como History, é fail-open.
func (e Engine) Likers(ctx context.Context, subject domain.Subject, tier domain.Tier, limit int) (Likers, error) {
	limits, err := e.Policy.LimitsFor(tier)
	if err != nil {
		return Likers{}, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	res := Likers{Revealed: limits.SeeWhoLiked, Subjects: []domain.Subject{}}
	seen := make(map[domain.Subject]struct{})
	for in, err := range e.Ledger.Incoming(ctx, subject) {
		if err != nil {
			e.logger().Warn().Err(err).Str("subject", string(subject)).Msg("likers unavailable, returning empty view")
			return Likers{Revealed: limits.SeeWhoLiked, Subjects: []domain.Subject{}}, nil
		}
		if in.Kind != domain.KindTap && in.Kind != domain.KindLike {
			continue
		}
		if _, ok := seen[in.From]; ok {
			continue
		}
		seen[in.From] = struct{}{}
		res.Count++
		if res.Revealed && len(res.Subjects) < limit {
			res.Subjects = append(res.Subjects, in.From)
		}
	}
	return res, nil
}
