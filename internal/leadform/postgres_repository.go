package leadform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgPool is the subset of pgxpool.Pool the repository uses. Narrowed so tests
// can substitute pgxmock.
type pgPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool pgPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool pgPool) *PostgresRepository {
	if pool == nil {
		panic("leadform: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Save inserts a new row. The full record rides along as JSON so no form
// revision loses data to a narrow column set.
func (r *PostgresRepository) Save(ctx context.Context, rec *LeadRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("leadform: marshal record: %w", err)
	}

	query := `
		INSERT INTO leads (id, first_name, last_name, email, phone, form_type, lead_score, lead_quality, payload, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.First,
		rec.Last,
		rec.Email,
		rec.Phone,
		string(rec.FormType),
		rec.LeadScore,
		string(rec.LeadQuality),
		payload,
		rec.SubmittedAt,
	); err != nil {
		return fmt.Errorf("leadform: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a stored lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*LeadRecord, error) {
	query := `SELECT payload FROM leads WHERE id = $1`
	var payload []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leadform: select failed: %w", err)
	}
	var rec LeadRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("leadform: unmarshal record: %w", err)
	}
	return &rec, nil
}

// ListRecent returns the newest leads first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*LeadRecord, error) {
	query := `SELECT payload FROM leads ORDER BY submitted_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("leadform: list failed: %w", err)
	}
	defer rows.Close()

	var out []*LeadRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("leadform: scan failed: %w", err)
		}
		var rec LeadRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("leadform: unmarshal record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leadform: rows: %w", err)
	}
	return out, nil
}
