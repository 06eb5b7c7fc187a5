package infra

import (
	"context"
	"iter"
	"time"

	"tapgate/gating/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger grava interações na tabela interactions. A unicidade de
// (from_subject, to_subject, kind) garante um sinal por par mesmo com envio
// duplo concorrente.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

const (
	qLedgerInsert = `
		INSERT INTO interactions (id, from_subject, to_subject, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (from_subject, to_subject, kind) DO NOTHING`

	qLedgerHasAny = `SELECT EXISTS (SELECT 1 FROM interactions WHERE from_subject = $1 AND to_subject = $2)`

	qLedgerHasKinds = `SELECT EXISTS (SELECT 1 FROM interactions WHERE from_subject = $1 AND to_subject = $2 AND kind = ANY($3))`

	qLedgerHistory = `
		SELECT id, from_subject, to_subject, kind, created_at
		FROM interactions
		WHERE from_subject = $1 OR to_subject = $1
		ORDER BY created_at DESC, id DESC`

	qLedgerIncoming = `
		SELECT id, from_subject, to_subject, kind, created_at
		FROM interactions
		WHERE to_subject = $1
		ORDER BY created_at DESC, id DESC`
)

func (l *PostgresLedger) Record(ctx context.Context, in domain.Interaction) (domain.InteractionID, error) {
	if in.At.IsZero() {
		in.At = time.Now()
	}
	if in.ID == "" {
		in.ID = NewInteractionID()
	}

	tag, err := l.pool.Exec(ctx, qLedgerInsert,
		string(in.ID), string(in.From), string(in.To), string(in.Kind), in.At.UTC())
	if err != nil {
		return "", unavailable("postgres record interaction", err)
	}
	if tag.RowsAffected() == 0 {
		return "", domain.ErrDuplicateInteraction
	}
	return in.ID, nil
}

func (l *PostgresLedger) HasAny(ctx context.Context, from, to domain.Subject, kinds ...domain.InteractionKind) (bool, error) {
	var (
		exists bool
		err    error
	)
	if len(kinds) == 0 {
		err = l.pool.QueryRow(ctx, qLedgerHasAny, string(from), string(to)).Scan(&exists)
	} else {
		ks := make([]string, len(kinds))
		for i, k := range kinds {
			ks[i] = string(k)
		}
		err = l.pool.QueryRow(ctx, qLedgerHasKinds, string(from), string(to), ks).Scan(&exists)
	}
	if err != nil {
		return false, unavailable("postgres lookup interaction", err)
	}
	return exists, nil
}

func (l *PostgresLedger) History(ctx context.Context, subject domain.Subject) iter.Seq2[domain.Interaction, error] {
	return l.query(ctx, qLedgerHistory, subject)
}

func (l *PostgresLedger) Incoming(ctx context.Context, subject domain.Subject) iter.Seq2[domain.Interaction, error] {
	return l.query(ctx, qLedgerIncoming, subject)
}

// query roda a consulta a cada range; parar a iteração fecha as rows.
func (l *PostgresLedger) query(ctx context.Context, sql string, subject domain.Subject) iter.Seq2[domain.Interaction, error] {
	return func(yield func(domain.Interaction, error) bool) {
		rows, err := l.pool.Query(ctx, sql, string(subject))
		if err != nil {
			yield(domain.Interaction{}, unavailable("postgres query interactions", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			in, err := scanInteraction(rows)
			if err != nil {
				yield(domain.Interaction{}, unavailable("postgres scan interaction", err))
				return
			}
			if !yield(in, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.Interaction{}, unavailable("postgres iterate interactions", err))
		}
	}
}

func scanInteraction(row pgx.Row) (domain.Interaction, error) {
	var (
		id, from, to, kind string
		at                 time.Time
	)
	if err := row.Scan(&id, &from, &to, &kind, &at); err != nil {
		return domain.Interaction{}, err
	}
	return domain.Interaction{
		ID:   domain.InteractionID(id),
		From: domain.Subject(from),
		To:   domain.Subject(to),
		Kind: domain.InteractionKind(kind),
		At:   at,
	}, nil
}
