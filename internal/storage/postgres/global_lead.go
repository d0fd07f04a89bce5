package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lead_finder/internal/domain"
)

// UpsertGlobalLead stores a candidate post once per (source, external_id). A post seen again
// only raises its engagement counters, so a feed sighting without counts keeps the stored
// ones. created reports whether the row is new.
func (s *LeadStore) UpsertGlobalLead(ctx context.Context, post *domain.CandidatePost) (int64, bool, error) {
	query := `
		INSERT INTO global_leads (
			source, external_id, title, body, author, community,
			url, permalink, engagement_score, comment_count, posted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (source, external_id) DO UPDATE SET
			engagement_score = GREATEST(global_leads.engagement_score, EXCLUDED.engagement_score),
			comment_count = GREATEST(global_leads.comment_count, EXCLUDED.comment_count)
		RETURNING id, (xmax = 0) AS created`

	postedAt := post.CreatedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}

	var id int64
	var created bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		post.Source,
		post.SourceID,
		post.Title,
		post.Body,
		post.Author,
		post.Community,
		post.URL,
		post.Permalink,
		post.EngagementScore,
		post.CommentCount,
		postedAt,
	).Scan(&id, &created)
	if err != nil {
		return 0, false, fmt.Errorf("upsert global lead: %w", err)
	}

	return id, created, nil
}

// UnprocessedLeads returns global leads scraped since the given time that mention at least
// one of the tenant's keywords and that the tenant has neither reviewed nor stored, newest
// first. Keywords are expected lower-cased. Matching mirrors ranking.MatchKeywords: the whole
// keyword as a substring, or every word of a multi-word keyword. The filter runs before the
// limit so unrelated leads cannot crowd matching ones out of the window.
func (s *LeadStore) UnprocessedLeads(ctx context.Context, tenantID int64, keywords []string, since time.Time, limit int) ([]domain.GlobalLead, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	query := `
		SELECT g.id, g.source, g.external_id, g.title, g.body, g.author, g.community,
			g.url, g.permalink, g.engagement_score, g.comment_count, g.posted_at, g.scraped_at
		FROM global_leads g
		WHERE g.scraped_at >= $2
			AND NOT EXISTS (
				SELECT 1 FROM tenant_leads t
				WHERE t.tenant_id = $1 AND t.global_lead_id = g.id
			)
			AND NOT EXISTS (
				SELECT 1 FROM lead_reviews r
				WHERE r.tenant_id = $1 AND r.global_lead_id = g.id
			)
			AND EXISTS (
				SELECT 1 FROM unnest($4::text[]) AS k(kw)
				WHERE STRPOS(LOWER(g.title || ' ' || g.body), k.kw) > 0
					OR (
						CARDINALITY(REGEXP_SPLIT_TO_ARRAY(k.kw, '\s+')) > 1
						AND NOT EXISTS (
							SELECT 1 FROM unnest(REGEXP_SPLIT_TO_ARRAY(k.kw, '\s+')) AS w(word)
							WHERE STRPOS(LOWER(g.title || ' ' || g.body), w.word) = 0
						)
					)
			)
		ORDER BY g.scraped_at DESC, g.id DESC
		LIMIT $3`

	var leads []domain.GlobalLead
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &leads, query,
		tenantID, since, limit, pq.Array(keywords),
	)
	if err != nil {
		return nil, fmt.Errorf("select unprocessed leads: %w", err)
	}
	return leads, nil
}
