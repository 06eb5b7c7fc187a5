package infra

import (
	"context"
	"errors"

	"tapgate/gating/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCounterStore usa upsert com RETURNING: o incremento e a leitura
// do novo valor são um único comando, sob o lock de linha da chave.
type PostgresCounterStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCounterStore(pool *pgxpool.Pool) *PostgresCounterStore {
	return &PostgresCounterStore{pool: pool}
}

const (
	qCounterCurrent = `SELECT count FROM usage_counters WHERE subject = $1 AND kind = $2 AND day = $3::date`

	qCounterIncrement = `
		INSERT INTO usage_counters (subject, kind, day, count)
		VALUES ($1, $2, $3::date, 1)
		ON CONFLICT (subject, kind, day) DO UPDATE SET count = usage_counters.count + 1
		RETURNING count`

	// sem linha de volta = já estava no teto
	qCounterIncrementBelow = `
		INSERT INTO usage_counters (subject, kind, day, count)
		VALUES ($1, $2, $3::date, 1)
		ON CONFLICT (subject, kind, day) DO UPDATE SET count = usage_counters.count + 1
		WHERE usage_counters.count < $4
		RETURNING count`
)

func (s *PostgresCounterStore) Current(ctx context.Context, key domain.CounterKey) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, qCounterCurrent, string(key.Subject), string(key.Kind), string(key.Day)).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("postgres read counter", err)
	}
	return n, nil
}

func (s *PostgresCounterStore) Increment(ctx context.Context, key domain.CounterKey) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, qCounterIncrement, string(key.Subject), string(key.Kind), string(key.Day)).Scan(&n)
	if err != nil {
		return 0, unavailable("postgres increment counter", err)
	}
	return n, nil
}

func (s *PostgresCounterStore) IncrementBelow(ctx context.Context, key domain.CounterKey, max int) (int, bool, error) {
	if max <= 0 {
		n, err := s.Current(ctx, key)
		return n, false, err
	}

	var n int
	err := s.pool.QueryRow(ctx, qCounterIncrementBelow, string(key.Subject), string(key.Kind), string(key.Day), max).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		cur, err := s.Current(ctx, key)
		return cur, false, err
	}
	if err != nil {
		return 0, false, unavailable("postgres increment counter", err)
	}
	return n, true, nil
}
