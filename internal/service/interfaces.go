package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"lead_finder/internal/domain"
)

type LeadStore interface {
	AggregatedKeywords(ctx context.Context) ([]string, error)
	TenantProfiles(ctx context.Context) ([]domain.TenantProfile, error)
	UpsertGlobalLead(ctx context.Context, post *domain.CandidatePost) (int64, bool, error)
	UnprocessedLeads(ctx context.Context, tenantID int64, keywords []string, since time.Time, limit int) ([]domain.GlobalLead, error)
	UpsertTenantLead(ctx context.Context, lead *domain.TenantLead) (int64, bool, error)
	RecordReview(ctx context.Context, tenantID, globalLeadID int64, score int) error
}

type CycleStore interface {
	RecordCycle(ctx context.Context, stats *domain.CycleStats) error
}

type Source interface {
	ID() string
	Name() string
	FetchCandidates(ctx context.Context, keywords []string) ([]domain.CandidatePost, error)
}

type Qualifier interface {
	BatchSize() int
	Qualify(ctx context.Context, profile domain.TenantProfile, leads []domain.GlobalLead) ([]domain.Qualification, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, lead *domain.TenantLead, global *domain.GlobalLead) error
	Close() error
}
