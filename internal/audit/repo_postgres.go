package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends decision events to the decision_events table.
//
// Schema (migration managed alongside the dashboard backend):
//
//	CREATE TABLE decision_events (
//	    id          UUID PRIMARY KEY,
//	    src         TEXT NOT NULL,
//	    line_type   TEXT NOT NULL,
//	    is_voip     BOOLEAN NOT NULL,
//	    fraud_score INT NOT NULL,
//	    outcome     TEXT NOT NULL,
//	    masked      BOOLEAN NOT NULL,
//	    reason      TEXT,
//	    campaign_id TEXT,
//	    cdr_id      TEXT,
//	    created_at  TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e DecisionEvent) error {
	const q = `
		INSERT INTO decision_events
			(id, src, line_type, is_voip, fraud_score, outcome, masked, reason, campaign_id, cdr_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Src,
		e.LineType,
		e.IsVoip,
		e.FraudScore,
		e.Outcome,
		e.Masked,
		nullable(e.Reason),
		nullable(e.CampaignID),
		nullable(e.CdrID),
		e.CreatedAt,
	)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
