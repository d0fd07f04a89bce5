package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lead_finder/internal/domain"
)

// AggregatedKeywords returns every distinct normalized keyword across all tenants.
func (s *LeadStore) AggregatedKeywords(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT TRIM(LOWER(keyword)) AS keyword
		FROM keywords
		WHERE LENGTH(TRIM(keyword)) >= 2
		ORDER BY keyword`

	var keywords []string
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &keywords, query); err != nil {
		return nil, fmt.Errorf("select keywords: %w", err)
	}
	return keywords, nil
}

type tenantRow struct {
	ID                    int64  `db:"id"`
	Name                  string `db:"name"`
	Description           string `db:"description"`
	QualifiedLeadCriteria string `db:"qualified_lead_criteria"`
}

// TenantProfiles returns all tenants with their keywords.
func (s *LeadStore) TenantProfiles(ctx context.Context) ([]domain.TenantProfile, error) {
	exec := GetExecutor(ctx, s.db)

	var rows []tenantRow
	err := sqlx.SelectContext(ctx, exec, &rows, `
		SELECT id, name, COALESCE(description, '') AS description,
			COALESCE(qualified_lead_criteria, '') AS qualified_lead_criteria
		FROM tenants
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select tenants: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}

	var keywords []domain.Keyword
	err = sqlx.SelectContext(ctx, exec, &keywords, `
		SELECT id, tenant_id, keyword, source
		FROM keywords
		WHERE tenant_id = ANY($1)
		ORDER BY tenant_id, id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select tenant keywords: %w", err)
	}

	byTenant := make(map[int64][]domain.Keyword, len(rows))
	for _, k := range keywords {
		byTenant[k.TenantID] = append(byTenant[k.TenantID], k)
	}

	profiles := make([]domain.TenantProfile, len(rows))
	for i, r := range rows {
		profiles[i] = domain.TenantProfile{
			ID:                    r.ID,
			Name:                  r.Name,
			Description:           r.Description,
			QualifiedLeadCriteria: r.QualifiedLeadCriteria,
			Keywords:              byTenant[r.ID],
		}
	}
	return profiles, nil
}

// AddKeywords stores keywords for a tenant, skipping ones it already tracks.
// It returns the number of keywords inserted.
func (s *LeadStore) AddKeywords(ctx context.Context, tenantID int64, keywords []domain.Keyword) (int, error) {
	exec := GetExecutor(ctx, s.db)

	added := 0
	for _, k := range keywords {
		res, err := exec.ExecContext(ctx, `
			INSERT INTO keywords (tenant_id, keyword, source)
			VALUES ($1, $2, $3)
			ON CONFLICT (tenant_id, keyword) DO NOTHING`,
			tenantID, k.Text, k.Source,
		)
		if err != nil {
			return added, fmt.Errorf("insert keyword %q: %w", k.Text, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, nil
}
