package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lead_finder/internal/domain"
)

type CycleStore struct {
	db *sqlx.DB
}

func NewCycleStore(db *sqlx.DB) *CycleStore {
	return &CycleStore{db: db}
}

// CycleRun is the stored summary of a finished cycle.
type CycleRun struct {
	CycleID       string    `db:"cycle_id"`
	StartedAt     time.Time `db:"started_at"`
	FinishedAt    time.Time `db:"finished_at"`
	Keywords      int       `db:"keywords"`
	Discovered    int       `db:"discovered"`
	Stored        int       `db:"stored"`
	Duplicates    int       `db:"duplicates"`
	StoreErrors   int       `db:"store_errors"`
	Qualified     int       `db:"qualified"`
	FailedTenants int       `db:"failed_tenants"`
}

func (s *CycleStore) RecordCycle(ctx context.Context, stats *domain.CycleStats) error {
	query := `
		INSERT INTO cycle_runs (
			cycle_id, started_at, finished_at, keywords, discovered,
			stored, duplicates, store_errors, qualified, failed_tenants
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (cycle_id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			discovered = EXCLUDED.discovered,
			stored = EXCLUDED.stored,
			duplicates = EXCLUDED.duplicates,
			store_errors = EXCLUDED.store_errors,
			qualified = EXCLUDED.qualified,
			failed_tenants = EXCLUDED.failed_tenants`

	_, err := s.db.ExecContext(ctx, query,
		stats.CycleID,
		stats.StartedAt,
		stats.StartedAt.Add(stats.Duration),
		stats.Keywords,
		stats.Discovered,
		stats.Stored,
		stats.Duplicates,
		stats.StoreErrors,
		stats.Qualified(),
		stats.FailedTenants(),
	)
	if err != nil {
		return fmt.Errorf("insert cycle run: %w", err)
	}
	return nil
}

// LastCycle returns the most recently started cycle, or nil when none has run yet.
func (s *CycleStore) LastCycle(ctx context.Context) (*CycleRun, error) {
	var run CycleRun
	err := s.db.GetContext(ctx, &run, `
		SELECT cycle_id, started_at, finished_at, keywords, discovered,
			stored, duplicates, store_errors, qualified, failed_tenants
		FROM cycle_runs
		ORDER BY started_at DESC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select last cycle: %w", err)
	}
	return &run, nil
}
