package application

import (
	"context"

	"tapgate/gating/domain"
)

// IsMutual é verdadeiro quando existem interações nos dois sentidos (qualquer tipo).
// Simétrica por construção.
func IsMutual(ctx context.Context, ledger domain.Ledger, a, b domain.Subject) (bool, error) {
	ab, err := ledger.HasAny(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return ledger.HasAny(ctx, b, a)
}

// VisibleSlice aplica o resultado de ViewProfiles a uma lista já ordenada
// pelo chamador. Nunca reordena.
func VisibleSlice[T any](items []T, visibleCount int) (visible []T, hidden int) {
	if visibleCount < 0 {
		visibleCount = 0
	}
	if visibleCount > len(items) {
		visibleCount = len(items)
	}
	return items[:visibleCount], len(items) - visibleCount
}
