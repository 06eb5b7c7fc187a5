package infra

import (
	"fmt"

	"tapgate/gating/domain"

	"go.jetify.com/typeid/v2"
)

// Prefixo TypeID das interações ("ixn_01h2xcejqtf2nbrexx3vqjhp41").
// IDs são K-ordenáveis (UUIDv7) e seguros para URL.
const interactionPrefix = "ixn"

func NewInteractionID() domain.InteractionID {
	tid, err := typeid.Generate(interactionPrefix)
	if err != nil {
		// prefixo fixo e válido: só falha por erro de programação
		panic(fmt.Sprintf("infra: generate interaction id: %v", err))
	}
	return domain.InteractionID(tid.String())
}

// ParseInteractionID valida o formato e o prefixo.
func ParseInteractionID(s string) (domain.InteractionID, error) {
	tid, err := typeid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse interaction id %q: %w", s, err)
	}
	if tid.Prefix() != interactionPrefix {
		return "", fmt.Errorf("parse interaction id %q: expected prefix %q, got %q", s, interactionPrefix, tid.Prefix())
	}
	return domain.InteractionID(tid.String()), nil
}
