package domain

// ActionType discrimina a variante de Action.
type ActionType string

const (
	ActionViewProfiles ActionType = "view_profiles"
	ActionSendTap      ActionType = "send_tap"
	ActionSendMessage  ActionType = "send_message"
)

// Action é o pedido de um subject. Construa com ViewProfiles, SendTap,
// SendSignal ou SendMessage.
type Action struct {
	Type ActionType

	// ViewProfiles
	CandidateCount int

	// SendTap / SendMessage
	To   Subject
	Kind InteractionKind
}

func ViewProfiles(candidateCount int) Action {
	return Action{Type: ActionViewProfiles, CandidateCount: candidateCount}
}

func SendTap(to Subject) Action {
	return SendSignal(to, KindTap)
}

// SendSignal envia um sinal de qualquer tipo (tap, like, woof, flame).
// Todos passam pelo mesmo gate de SendTap.
func SendSignal(to Subject, kind InteractionKind) Action {
	return Action{Type: ActionSendTap, To: to, Kind: kind}
}

func SendMessage(to Subject) Action {
	return Action{Type: ActionSendMessage, To: to}
}

// DecisionContext carrega os tiers resolvidos pelo chamador (colaborador de
// identidade). RecipientTier só importa para SendMessage; vazio = desconhecido.
type DecisionContext struct {
	Tier          Tier
	RecipientTier Tier
}
