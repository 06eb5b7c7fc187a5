package application

import (
	"fmt"

	"tapgate/gating/domain"
)

// TierTable mapeia cada tier para seus limites.
type TierTable map[domain.Tier]domain.TierLimits

// DefaultTierTable devolve os limites de produto padrão.
func DefaultTierTable() TierTable {
	return TierTable{
		domain.TierFree: {
			MaxVisibleProfiles: 60,
			MaxDailyTaps:       10,
			MaxDailyMessages:   5,
		},
		domain.TierPro: {
			MaxVisibleProfiles: 300,
			MaxDailyTaps:       domain.Unlimited,
			MaxDailyMessages:   50,
			UnlimitedLikes:     true,
			SeeWhoLiked:        true,
		},
		domain.TierPremium: {
			MaxVisibleProfiles: 999,
			MaxDailyTaps:       domain.Unlimited,
			MaxDailyMessages:   domain.Unlimited,
			UnlimitedLikes:     true,
			SeeWhoLiked:        true,
			CanMessageAnyone:   true,
		},
	}
}

// TierPolicy é a tabela de limites por tier. Imutável depois de criada.
type TierPolicy struct {
	table TierTable
}

// NewTierPolicy valida a tabela: todo tier conhecido precisa estar presente.
func NewTierPolicy(table TierTable) (TierPolicy, error) {
	cp := make(TierTable, len(table))
	for t, l := range table {
		cp[t] = l
	}
	for _, t := range domain.Tiers() {
		l, ok := cp[t]
		if !ok {
			return TierPolicy{}, fmt.Errorf("%w: tier %q has no limits", domain.ErrConfig, t)
		}
		if err := validateLimits(t, l); err != nil {
			return TierPolicy{}, err
		}
	}
	return TierPolicy{table: cp}, nil
}

// MustTierPolicy é como NewTierPolicy mas entra em pânico. Use com tabelas fixas.
func MustTierPolicy(table TierTable) TierPolicy {
	p, err := NewTierPolicy(table)
	if err != nil {
		panic(err)
	}
	return p
}

func validateLimits(t domain.Tier, l domain.TierLimits) error {
	if l.MaxVisibleProfiles < 0 {
		return fmt.Errorf("%w: tier %q: max visible profiles must be >= 0", domain.ErrConfig, t)
	}
	if l.MaxDailyTaps < domain.Unlimited {
		return fmt.Errorf("%w: tier %q: max daily taps must be >= -1", domain.ErrConfig, t)
	}
	if l.MaxDailyMessages < domain.Unlimited {
		return fmt.Errorf("%w: tier %q: max daily messages must be >= -1", domain.ErrConfig, t)
	}
	return nil
}

// LimitsFor é uma consulta pura. Tier desconhecido é erro de programação
// (ErrConfig), nunca uma negação.
func (p TierPolicy) LimitsFor(t domain.Tier) (domain.TierLimits, error) {
	l, ok := p.table[t]
	if !ok {
		return domain.TierLimits{}, fmt.Errorf("%w: no limits for tier %q", domain.ErrConfig, t)
	}
	return l, nil
}

// WithOverride devolve uma cópia da política com os limites do tier alterados por fn.
func (p TierPolicy) WithOverride(t domain.Tier, fn func(*domain.TierLimits)) (TierPolicy, error) {
	l, err := p.LimitsFor(t)
	if err != nil {
		return TierPolicy{}, err
	}
	fn(&l)

	table := make(TierTable, len(p.table))
	for k, v := range p.table {
		table[k] = v
	}
	table[t] = l
	return NewTierPolicy(table)
}
