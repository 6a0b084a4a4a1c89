package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
)

// RunRepository persists completed ranking runs. Run payloads are stored as a
// single JSONB document; the columns pulled out of the payload exist only
// for querying and retention.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a run repository on an existing pool.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// EnsureSchema creates the runs table when it does not exist yet.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ranking_runs (
			id              TEXT PRIMARY KEY,
			philosophy      TEXT NOT NULL,
			config_hash     TEXT NOT NULL,
			generated_at    TIMESTAMPTZ NOT NULL,
			ranked_count    INT NOT NULL,
			dq_count        INT NOT NULL,
			malformed_count INT NOT NULL,
			payload         JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS ranking_runs_philosophy_generated_idx
			ON ranking_runs (philosophy, generated_at DESC);
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure ranking_runs schema: %w", err)
	}
	return nil
}

// SaveRun stores a completed run.
func (r *RunRepository) SaveRun(ctx context.Context, run *contracts.RankingRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	query := `
		INSERT INTO ranking_runs (
			id, philosophy, config_hash, generated_at,
			ranked_count, dq_count, malformed_count, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = r.pool.Exec(ctx, query,
		run.ID, run.Philosophy, run.ConfigHash, run.GeneratedAt,
		run.TotalRanked, run.TotalDisqualified, len(run.Malformed), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run for a philosophy.
func (r *RunRepository) LatestRun(ctx context.Context, philosophy string) (*contracts.RankingRun, error) {
	query := `
		SELECT payload FROM ranking_runs
		WHERE philosophy = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`
	var payload []byte
	err := r.pool.QueryRow(ctx, query, philosophy).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	var run contracts.RankingRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// GetRun returns one run by ID.
func (r *RunRepository) GetRun(ctx context.Context, id string) (*contracts.RankingRun, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM ranking_runs WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, contracts.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var run contracts.RankingRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// DeleteOlderThan removes runs past the retention window and returns how
// many rows went away.
func (r *RunRepository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	tag, err := r.pool.Exec(ctx, `DELETE FROM ranking_runs WHERE generated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
