package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig contém os parâmetros do pool.
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func DefaultPostgresConfig(url string) PostgresConfig {
	return PostgresConfig{
		URL:             url,
		MaxConns:        25,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// OpenPostgres cria o pool e testa a conexão.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// schema é idempotente; Migrate pode rodar em todo boot.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id         TEXT PRIMARY KEY,
		tier       TEXT NOT NULL DEFAULT 'free',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS usage_counters (
		subject TEXT    NOT NULL,
		kind    TEXT    NOT NULL,
		day     DATE    NOT NULL,
		count   INTEGER NOT NULL CHECK (count >= 0),
		PRIMARY KEY (subject, kind, day)
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id           TEXT PRIMARY KEY,
		from_subject TEXT NOT NULL,
		to_subject   TEXT NOT NULL,
		kind         TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		UNIQUE (from_subject, to_subject, kind)
	)`,
	`CREATE INDEX IF NOT EXISTS interactions_pair_idx ON interactions (from_subject, to_subject)`,
	`CREATE INDEX IF NOT EXISTS interactions_to_idx ON interactions (to_subject, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS interactions_from_idx ON interactions (from_subject, created_at DESC)`,
}

// Migrate cria as tabelas usadas pelos stores Postgres.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
