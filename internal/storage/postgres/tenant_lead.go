package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lead_finder/internal/domain"
)

// UpsertTenantLead stores a qualified lead once per (tenant, global lead). An existing pair is
// left untouched and reported with created=false.
func (s *LeadStore) UpsertTenantLead(ctx context.Context, lead *domain.TenantLead) (int64, bool, error) {
	exec := GetExecutor(ctx, s.db)

	processedAt := lead.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	query := `
		INSERT INTO tenant_leads (
			tenant_id, global_lead_id, ai_score, ai_reasoning, matched_keywords, processed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (tenant_id, global_lead_id) DO NOTHING
		RETURNING id`

	var id int64
	err := exec.QueryRowxContext(ctx, query,
		lead.TenantID,
		lead.GlobalLeadID,
		lead.AIScore,
		lead.AIReasoning,
		pq.Array(lead.MatchedKeywords),
		processedAt,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		err = exec.QueryRowxContext(ctx,
			"SELECT id FROM tenant_leads WHERE tenant_id = $1 AND global_lead_id = $2",
			lead.TenantID, lead.GlobalLeadID,
		).Scan(&id)
		if err != nil {
			return 0, false, fmt.Errorf("select existing tenant lead: %w", err)
		}
		return id, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("insert tenant lead: %w", err)
	}

	return id, true, nil
}

// RecordReview remembers that a lead received a model verdict for a tenant.
func (s *LeadStore) RecordReview(ctx context.Context, tenantID, globalLeadID int64, score int) error {
	query := `
		INSERT INTO lead_reviews (tenant_id, global_lead_id, ai_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, global_lead_id) DO UPDATE SET
			ai_score = EXCLUDED.ai_score,
			reviewed_at = NOW()`

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, tenantID, globalLeadID, score); err != nil {
		return fmt.Errorf("record review: %w", err)
	}
	return nil
}
