package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourusername/outreach-api/internal/model"
)

const messagesSchema = `
	CREATE TABLE IF NOT EXISTS outreach_messages (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id    UUID        NOT NULL,
		company_name  TEXT        NOT NULL,
		job_title     TEXT        NOT NULL,
		platform      TEXT        NOT NULL,
		tone          TEXT        NOT NULL,
		length        TEXT        NOT NULL,
		variant_index INT         NOT NULL,
		body          TEXT        NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS outreach_messages_session_idx ON outreach_messages (session_id, created_at);
`

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// EnsureSchema creates the history table if it does not exist
func (r *MessageRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, messagesSchema); err != nil {
		return fmt.Errorf("creating message schema: %w", err)
	}
	return nil
}

// Save stores every variant of one generation, all or nothing
func (r *MessageRepo) Save(ctx context.Context, sessionID uuid.UUID, req *model.GenerationRequest, variants []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, body := range variants {
		_, err = tx.Exec(ctx, `
			INSERT INTO outreach_messages (session_id, company_name, job_title, platform,
			                               tone, length, variant_index, body)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, sessionID, req.CompanyName, req.JobTitle, req.Platform,
			req.Tone, req.Length, i+1, body,
		)
		if err != nil {
			return fmt.Errorf("inserting variant %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListBySession returns a session's saved variants, oldest generation first
func (r *MessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.MessageRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, company_name, job_title, platform, tone, length,
		       variant_index, body, created_at
		FROM outreach_messages
		WHERE session_id = $1
		ORDER BY created_at, variant_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var records []model.MessageRecord
	for rows.Next() {
		var m model.MessageRecord
		err := rows.Scan(
			&m.ID, &m.SessionID, &m.CompanyName, &m.JobTitle, &m.Platform,
			&m.Tone, &m.Length, &m.VariantIndex, &m.Body, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}

	return records, nil
}
