package infra

import (
	"context"
	"errors"
	"fmt"

	"tapgate/gating/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTierDirectory lê o tier da tabela subjects, mantida pelo serviço
// de perfis/billing.
type PostgresTierDirectory struct {
	pool *pgxpool.Pool
}

func NewPostgresTierDirectory(pool *pgxpool.Pool) *PostgresTierDirectory {
	return &PostgresTierDirectory{pool: pool}
}

const (
	qTierOf  = `SELECT tier FROM subjects WHERE id = $1`
	qSetTier = `
		INSERT INTO subjects (id, tier, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET tier = EXCLUDED.tier, updated_at = now()`
)

func (d *PostgresTierDirectory) TierOf(ctx context.Context, subject domain.Subject) (domain.Tier, error) {
	var raw string
	err := d.pool.QueryRow(ctx, qTierOf, string(subject)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrUnknownSubject
	}
	if err != nil {
		return "", unavailable("postgres read tier", err)
	}
	t, err := domain.ParseTier(raw)
	if err != nil {
		return "", fmt.Errorf("subject %q: %w", subject, err)
	}
	return t, nil
}

func (d *PostgresTierDirectory) SetTier(ctx context.Context, subject domain.Subject, tier domain.Tier) error {
	if _, err := d.pool.Exec(ctx, qSetTier, string(subject), string(tier)); err != nil {
		return unavailable("postgres write tier", err)
	}
	return nil
}
