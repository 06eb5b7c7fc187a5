package domain

// DenyReason explica uma negação de política. Não é erro.
type DenyReason string

const (
	ReasonNone              DenyReason = ""
	ReasonDailyLimitReached DenyReason = "daily_limit_reached"
	ReasonAlreadyTapped     DenyReason = "already_tapped"
	ReasonNotEligible       DenyReason = "not_eligible"
)

// Decision é o resultado de Engine.Decide.
//
// Allowed=false sempre vem com Reason preenchido. Os demais campos são extras
// da variante permitida e ficam zerados quando não se aplicam.
type Decision struct {
	Allowed bool
	Reason  DenyReason

	// ViewProfiles
	VisibleCount int
	HiddenCount  int

	// SendTap: o sinal inverso já existia, mensagens liberadas.
	BecameMutual  bool
	InteractionID InteractionID

	// Contador após o incremento e quanto resta hoje (-1 = sem teto).
	Count     int
	Remaining int
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
