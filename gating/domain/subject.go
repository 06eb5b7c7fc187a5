package domain

import (
	"fmt"
	"strings"
	"time"
)

// Subject é o identificador opaco de um usuário.
type Subject string

// Tier é o nível de assinatura de um subject. Conjunto fechado.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// Tiers lista todos os tiers conhecidos, do mais barato ao mais caro.
func Tiers() []Tier {
	return []Tier{TierFree, TierPro, TierPremium}
}

func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TierFree, TierPro, TierPremium:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown tier %q", ErrConfig, s)
}

// Day é um dia de calendário no formato ISO (2006-01-02).
//
// Os contadores diários são chaveados por Day; a virada do dia é implícita:
// uma chave nova começa em zero.
type Day string

const dayLayout = "2006-01-02"

func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time devolve a meia-noite do dia em UTC.
func (d Day) Time() time.Time {
	t, _ := time.Parse(dayLayout, string(d))
	return t
}

func (d Day) String() string { return string(d) }

// Clock fornece a data corrente para o reset diário dos limites.
// A política de fuso horário é da implementação.
type Clock interface {
	Today() Day
}
