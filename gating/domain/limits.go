package domain

import "strconv"

// Limit é um teto numérico. Unlimited (-1) significa sem teto.
type Limit int

const Unlimited Limit = -1

func (l Limit) Bounded() bool { return l >= 0 }

// Remaining devolve quanto sobra dado o uso atual (Unlimited se não houver teto).
func (l Limit) Remaining(used int) int {
	if !l.Bounded() {
		return int(Unlimited)
	}
	if r := int(l) - used; r > 0 {
		return r
	}
	return 0
}

func (l Limit) String() string {
	if !l.Bounded() {
		return "unlimited"
	}
	return strconv.Itoa(int(l))
}

// TierLimits é o conjunto de limites e desbloqueios de um tier.
// Uma instância por tier, constante durante a vida do processo.
type TierLimits struct {
	MaxVisibleProfiles int
	MaxDailyTaps       Limit
	MaxDailyMessages   Limit

	UnlimitedLikes   bool
	SeeWhoLiked      bool
	CanMessageAnyone bool
}
