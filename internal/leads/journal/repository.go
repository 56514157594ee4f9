// Package journal keeps a Postgres copy of every lead the service captured.
package journal

import (
	"context"
	"fmt"

	"marmurfit_voicebot/internal/leads/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertLeadSQL = `
INSERT INTO ivr_leads (
	id, source, work_type, provider, call_id, caller_phone, material,
	area_m2, width_cm, length_ml, estimate_ron, note, utterance, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO NOTHING`

// Repository writes leads to the ivr_leads table.
type Repository struct {
	db execer
}

// NewRepository returns nil when the database is not configured.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		return nil
	}
	return &Repository{db: pool}
}

// Name identifies the sink in logs.
func (r *Repository) Name() string { return "journal" }

// Deliver inserts the lead. Redelivery of the same lead ID is a no-op.
func (r *Repository) Deliver(ctx context.Context, lead domain.Lead) error {
	_, err := r.db.Exec(ctx, insertLeadSQL,
		lead.ID,
		lead.Source,
		lead.WorkType,
		lead.Provider,
		lead.CallID,
		lead.CallerPhone,
		lead.Material,
		lead.AreaSquareMeters,
		lead.WidthCentimeters,
		lead.LengthLinearMeters,
		lead.Estimate,
		lead.Note,
		lead.Utterance,
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}
