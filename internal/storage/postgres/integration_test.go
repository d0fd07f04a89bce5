//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"lead_finder/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
	store     *LeadStore
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db

	applied, err := Migrate(s.ctx, db)
	s.Require().NoError(err)
	s.Equal(2, applied)

	s.store = NewLeadStore(db)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx,
		"TRUNCATE lead_reviews, tenant_leads, global_leads, keywords, tenants, cycle_runs RESTART IDENTITY CASCADE")
	s.Require().NoError(err)
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) createTenant(name, criteria string, keywords ...string) int64 {
	var id int64
	err := s.db.QueryRowxContext(s.ctx,
		"INSERT INTO tenants (name, description, qualified_lead_criteria) VALUES ($1, $2, $3) RETURNING id",
		name, name+" description", criteria,
	).Scan(&id)
	s.Require().NoError(err)

	var kws []domain.Keyword
	for _, k := range keywords {
		kws = append(kws, domain.Keyword{Text: k, Source: domain.KeywordManual})
	}
	added, err := s.store.AddKeywords(s.ctx, id, kws)
	s.Require().NoError(err)
	s.Equal(len(keywords), added)
	return id
}

func candidate(id, title string) *domain.CandidatePost {
	return &domain.CandidatePost{
		Source:          domain.SourceReddit,
		SourceID:        id,
		Title:           title,
		Body:            "body of " + id,
		Author:          "someone",
		Community:       "startups",
		URL:             "https://reddit.com/r/startups/comments/" + id,
		Permalink:       "https://reddit.com/r/startups/comments/" + id,
		EngagementScore: 3,
		CommentCount:    1,
		CreatedAt:       time.Now().Add(-time.Hour).Truncate(time.Microsecond),
	}
}

func (s *PostgresIntegrationSuite) TestAggregatedKeywords() {
	s.createTenant("a", "", "CRM", " startup ", "x")
	s.createTenant("b", "", "crm", "Billing")

	keywords, err := s.store.AggregatedKeywords(s.ctx)

	s.Require().NoError(err)
	s.Equal([]string{"billing", "crm", "startup"}, keywords)
}

func (s *PostgresIntegrationSuite) TestTenantProfiles() {
	first := s.createTenant("first", "founders comparing tools", "crm", "pipeline")
	second := s.createTenant("second", "")

	profiles, err := s.store.TenantProfiles(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Equal(first, profiles[0].ID)
	s.Equal("founders comparing tools", profiles[0].QualifiedLeadCriteria)
	s.Equal([]string{"crm", "pipeline"}, profiles[0].KeywordTexts())
	s.Equal(domain.KeywordManual, profiles[0].Keywords[0].Source)
	s.Equal(second, profiles[1].ID)
	s.Empty(profiles[1].Keywords)
}

func (s *PostgresIntegrationSuite) TestAddKeywords_SkipsExisting() {
	id := s.createTenant("a", "", "crm")

	added, err := s.store.AddKeywords(s.ctx, id, []domain.Keyword{
		{Text: "crm", Source: domain.KeywordAIWebsite},
		{Text: "sales pipeline", Source: domain.KeywordAIWebsite},
	})

	s.Require().NoError(err)
	s.Equal(1, added)
}

func (s *PostgresIntegrationSuite) TestUpsertGlobalLead_Idempotent() {
	post := candidate("abc", "Need a CRM")

	id, created, err := s.store.UpsertGlobalLead(s.ctx, post)
	s.Require().NoError(err)
	s.True(created)
	s.Greater(id, int64(0))

	post.EngagementScore = 42
	post.CommentCount = 7
	post.Title = "edited title"
	again, created, err := s.store.UpsertGlobalLead(s.ctx, post)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(id, again)

	var row domain.GlobalLead
	err = s.db.GetContext(s.ctx, &row, `
		SELECT id, source, external_id, title, body, author, community, url, permalink,
			engagement_score, comment_count, posted_at, scraped_at
		FROM global_leads`)
	s.Require().NoError(err)
	s.Equal("Need a CRM", row.Title)
	s.Equal(42, row.EngagementScore)
	s.Equal(7, row.CommentCount)
	s.True(post.CreatedAt.Equal(row.PostedAt))
}

func (s *PostgresIntegrationSuite) TestUpsertGlobalLead_FeedSightingKeepsCounts() {
	post := candidate("abc", "Need a CRM")
	post.EngagementScore = 42
	post.CommentCount = 7
	_, _, err := s.store.UpsertGlobalLead(s.ctx, post)
	s.Require().NoError(err)

	post.EngagementScore = 0
	post.CommentCount = 0
	_, created, err := s.store.UpsertGlobalLead(s.ctx, post)
	s.Require().NoError(err)
	s.False(created)

	var score, comments int
	row := s.db.QueryRowxContext(s.ctx, "SELECT engagement_score, comment_count FROM global_leads")
	s.Require().NoError(row.Scan(&score, &comments))
	s.Equal(42, score)
	s.Equal(7, comments)
}

func (s *PostgresIntegrationSuite) TestUnprocessedLeads() {
	tenant := s.createTenant("a", "", "crm")
	other := s.createTenant("b", "", "crm")

	var ids []int64
	for _, ext := range []string{"p1", "p2", "p3", "p4"} {
		id, _, err := s.store.UpsertGlobalLead(s.ctx, candidate(ext, "crm "+ext))
		s.Require().NoError(err)
		ids = append(ids, id)
	}

	_, _, err := s.store.UpsertTenantLead(s.ctx, &domain.TenantLead{TenantID: tenant, GlobalLeadID: ids[0], AIScore: 90})
	s.Require().NoError(err)
	s.Require().NoError(s.store.RecordReview(s.ctx, tenant, ids[1], 20))
	_, err = s.db.ExecContext(s.ctx, "UPDATE global_leads SET scraped_at = NOW() - INTERVAL '30 days' WHERE id = $1", ids[2])
	s.Require().NoError(err)

	since := time.Now().Add(-7 * 24 * time.Hour)

	leads, err := s.store.UnprocessedLeads(s.ctx, tenant, []string{"crm"}, since, 10)
	s.Require().NoError(err)
	s.Require().Len(leads, 1)
	s.Equal(ids[3], leads[0].ID)
	s.Equal("p4", leads[0].ExternalID)

	leads, err = s.store.UnprocessedLeads(s.ctx, other, []string{"crm"}, since, 2)
	s.Require().NoError(err)
	s.Len(leads, 2)
}

func (s *PostgresIntegrationSuite) TestUnprocessedLeads_UnrelatedLeadsDoNotCrowdOutMatches() {
	tenant := s.createTenant("a", "", "crm")

	matching, _, err := s.store.UpsertGlobalLead(s.ctx, candidate("old", "Which CRM do you use?"))
	s.Require().NoError(err)
	_, err = s.db.ExecContext(s.ctx, "UPDATE global_leads SET scraped_at = NOW() - INTERVAL '2 days' WHERE id = $1", matching)
	s.Require().NoError(err)

	for _, ext := range []string{"n1", "n2", "n3", "n4"} {
		_, _, err := s.store.UpsertGlobalLead(s.ctx, candidate(ext, "Cooking tips "+ext))
		s.Require().NoError(err)
	}

	since := time.Now().Add(-7 * 24 * time.Hour)
	leads, err := s.store.UnprocessedLeads(s.ctx, tenant, []string{"crm"}, since, 2)

	s.Require().NoError(err)
	s.Require().Len(leads, 1)
	s.Equal(matching, leads[0].ID)
}

func (s *PostgresIntegrationSuite) TestUnprocessedLeads_KeywordMatching() {
	tenant := s.createTenant("a", "", "sales pipeline")

	phrase, _, err := s.store.UpsertGlobalLead(s.ctx, candidate("phrase", "Our Sales Pipeline is a mess"))
	s.Require().NoError(err)
	words, _, err := s.store.UpsertGlobalLead(s.ctx, candidate("words", "Pipeline tooling for a sales team"))
	s.Require().NoError(err)
	_, _, err = s.store.UpsertGlobalLead(s.ctx, candidate("partial", "Sales tips for founders"))
	s.Require().NoError(err)

	since := time.Now().Add(-7 * 24 * time.Hour)
	leads, err := s.store.UnprocessedLeads(s.ctx, tenant, []string{"sales pipeline"}, since, 10)
	s.Require().NoError(err)

	var ids []int64
	for _, l := range leads {
		ids = append(ids, l.ID)
	}
	s.ElementsMatch([]int64{phrase, words}, ids)

	leads, err = s.store.UnprocessedLeads(s.ctx, tenant, nil, since, 10)
	s.Require().NoError(err)
	s.Empty(leads)
}

func (s *PostgresIntegrationSuite) TestUpsertTenantLead_Idempotent() {
	tenant := s.createTenant("a", "", "crm")
	globalID, _, err := s.store.UpsertGlobalLead(s.ctx, candidate("abc", "crm"))
	s.Require().NoError(err)

	lead := &domain.TenantLead{
		TenantID:        tenant,
		GlobalLeadID:    globalID,
		AIScore:         85,
		AIReasoning:     "seeking a CRM",
		MatchedKeywords: []string{"crm", "startup"},
	}

	id, created, err := s.store.UpsertTenantLead(s.ctx, lead)
	s.Require().NoError(err)
	s.True(created)

	lead.AIScore = 10
	again, created, err := s.store.UpsertTenantLead(s.ctx, lead)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(id, again)

	var score int
	var keywords []string
	row := s.db.QueryRowxContext(s.ctx, "SELECT ai_score, matched_keywords FROM tenant_leads WHERE id = $1", id)
	s.Require().NoError(row.Scan(&score, pq.Array(&keywords)))
	s.Equal(85, score)
	s.Equal([]string{"crm", "startup"}, keywords)
}

func (s *PostgresIntegrationSuite) TestTransaction_RollbackDiscardsWrites() {
	tenant := s.createTenant("a", "", "crm")
	globalID, _, err := s.store.UpsertGlobalLead(s.ctx, candidate("abc", "crm"))
	s.Require().NoError(err)

	tm := NewTransactionManager(s.db)
	err = tm.WithTransaction(s.ctx, func(txCtx context.Context) error {
		if err := s.store.RecordReview(txCtx, tenant, globalID, 70); err != nil {
			return err
		}
		_, _, err := s.store.UpsertTenantLead(txCtx, &domain.TenantLead{TenantID: tenant, GlobalLeadID: globalID + 1000, AIScore: 70})
		return err
	})
	s.Require().Error(err)

	var reviews int
	s.Require().NoError(s.db.GetContext(s.ctx, &reviews, "SELECT COUNT(*) FROM lead_reviews"))
	s.Zero(reviews)
}

func (s *PostgresIntegrationSuite) TestCycleStore() {
	store := NewCycleStore(s.db)

	last, err := store.LastCycle(s.ctx)
	s.Require().NoError(err)
	s.Nil(last)

	stats := &domain.CycleStats{
		CycleID:    uuid.NewString(),
		StartedAt:  time.Now().Add(-time.Minute).Truncate(time.Microsecond),
		Keywords:   3,
		Discovered: 10,
		Stored:     4,
		Duplicates: 6,
		Tenants: []domain.TenantStats{
			{TenantID: 1, Qualified: 2},
			{TenantID: 2, Failed: true},
		},
		Duration: 30 * time.Second,
	}
	s.Require().NoError(store.RecordCycle(s.ctx, stats))

	last, err = store.LastCycle(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(last)
	s.Equal(stats.CycleID, last.CycleID)
	s.Equal(4, last.Stored)
	s.Equal(2, last.Qualified)
	s.Equal(1, last.FailedTenants)
	s.True(stats.StartedAt.Add(30 * time.Second).Equal(last.FinishedAt))
}
