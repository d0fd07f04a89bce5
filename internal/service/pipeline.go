package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lead_finder/internal/config"
	"lead_finder/internal/domain"
	"lead_finder/internal/ranking"
)

// Pipeline runs discovery and per-tenant qualification cycles.
type Pipeline struct {
	source    Source
	leads     LeadStore
	cycles    CycleStore
	qualifier Qualifier
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	config    config.PipelineConfig

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline wires a pipeline. cycles and publisher may be nil.
func NewPipeline(
	source Source,
	leads LeadStore,
	cycles CycleStore,
	qualifier Qualifier,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.PipelineConfig,
) *Pipeline {
	return &Pipeline{
		source:    source,
		leads:     leads,
		cycles:    cycles,
		qualifier: qualifier,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("component", "pipeline", "source", source.ID()),
		config:    cfg,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// RunCycle discovers new posts for all tenant keywords and qualifies unprocessed leads
// for every tenant. Failures of single posts, batches or tenants are logged and counted;
// an error is returned only when the cycle could not run at all.
func (p *Pipeline) RunCycle(ctx context.Context) (*domain.CycleStats, error) {
	stats := &domain.CycleStats{
		CycleID:   uuid.NewString(),
		StartedAt: p.now(),
	}
	logger := p.logger.With("cycle_id", stats.CycleID)
	logger.Info("starting cycle", "source_name", p.source.Name())

	keywords, err := p.aggregateKeywords(ctx)
	if err != nil {
		return stats, fmt.Errorf("aggregate keywords: %w", err)
	}
	stats.Keywords = len(keywords)

	if len(keywords) == 0 {
		logger.Info("no keywords configured, skipping cycle")
		stats.Duration = time.Since(stats.StartedAt)
		p.recordCycle(ctx, logger, stats)
		return stats, nil
	}

	if err := p.discover(ctx, logger, keywords, stats); err != nil {
		return stats, err
	}

	tenants, err := p.leads.TenantProfiles(ctx)
	if err != nil {
		return stats, fmt.Errorf("load tenant profiles: %w", err)
	}

	for _, tenant := range tenants {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Tenants = append(stats.Tenants, p.processTenant(ctx, logger, tenant))
	}

	stats.Duration = time.Since(stats.StartedAt)
	p.recordCycle(ctx, logger, stats)

	logger.Info("cycle completed",
		"keywords", stats.Keywords,
		"discovered", stats.Discovered,
		"unique", stats.Unique,
		"stored", stats.Stored,
		"duplicates", stats.Duplicates,
		"store_errors", stats.StoreErrors,
		"tenants", len(stats.Tenants),
		"failed_tenants", stats.FailedTenants(),
		"qualified", stats.Qualified(),
		"duration", stats.Duration,
	)

	return stats, nil
}

func (p *Pipeline) aggregateKeywords(ctx context.Context) ([]string, error) {
	raw, err := p.leads.AggregatedKeywords(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raw))
	keywords := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = domain.NormalizeKeyword(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}
	return keywords, nil
}

// discover fetches, dedupes, ranks and stores candidates as global leads.
func (p *Pipeline) discover(ctx context.Context, logger *slog.Logger, keywords []string, stats *domain.CycleStats) error {
	posts, err := p.source.FetchCandidates(ctx, keywords)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("fetch candidates: %w", err)
		}
		logger.Warn("fetch candidates incomplete", "error", err, "fetched", len(posts))
	}
	stats.Discovered = len(posts)

	ranked := ranking.Rank(ranking.Dedupe(posts))
	stats.Unique = len(ranked)

	logger.Info("discovered candidates",
		"discovered", stats.Discovered,
		"unique", stats.Unique,
	)

	for i := range ranked {
		post := &ranked[i]
		post.SourceID = ranking.ExternalID(*post)

		_, created, err := p.leads.UpsertGlobalLead(ctx, post)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return fmt.Errorf("store global lead: %w", err)
			}
			stats.StoreErrors++
			logger.Warn("failed to store global lead",
				"external_id", post.SourceID,
				"error", err,
			)
		case created:
			stats.Stored++
		default:
			stats.Duplicates++
		}
	}

	return nil
}

// processTenant qualifies one tenant's unprocessed leads. Errors and panics are contained
// and reported through TenantStats.Failed.
func (p *Pipeline) processTenant(ctx context.Context, logger *slog.Logger, profile domain.TenantProfile) (ts domain.TenantStats) {
	ts = domain.TenantStats{TenantID: profile.ID, TenantName: profile.Name}
	logger = logger.With("tenant_id", profile.ID, "tenant", profile.Name)

	defer func() {
		if r := recover(); r != nil {
			ts.Failed = true
			logger.Error("tenant processing panicked", "panic", r)
		}
	}()

	if err := p.qualifyTenant(ctx, logger, profile, &ts); err != nil {
		ts.Failed = true
		logger.Error("tenant processing failed", "error", err)
		return ts
	}

	logger.Info("tenant processed",
		"unprocessed", ts.Unprocessed,
		"matched", ts.Matched,
		"analyzed", ts.Analyzed,
		"qualified", ts.Qualified,
	)
	return ts
}

func (p *Pipeline) qualifyTenant(ctx context.Context, logger *slog.Logger, profile domain.TenantProfile, ts *domain.TenantStats) error {
	keywords := profile.KeywordTexts()
	if len(keywords) == 0 {
		logger.Debug("tenant has no keywords")
		return nil
	}

	since := p.now().Add(-p.config.Lookback)
	leads, err := p.leads.UnprocessedLeads(ctx, profile.ID, keywords, since, p.config.MaxLeadsPerTenant)
	if err != nil {
		return fmt.Errorf("load unprocessed leads: %w", err)
	}
	ts.Unprocessed = len(leads)

	matched := filterByKeywords(leads, keywords)
	ts.Matched = len(matched)

	size := max(p.qualifier.BatchSize(), 1)
	for start := 0; start < len(matched); start += size {
		if start > 0 {
			if err := p.sleep(ctx, p.config.BatchPause); err != nil {
				return err
			}
		}

		chunk := matched[start:min(start+size, len(matched))]
		quals, err := p.qualifier.Qualify(ctx, profile, chunk)
		if err != nil {
			return fmt.Errorf("qualify leads: %w", err)
		}

		result, err := p.persistChunk(ctx, profile, chunk, quals)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			logger.Warn("failed to persist qualified leads",
				"chunk_start", start,
				"error", err,
			)
			continue
		}

		ts.Analyzed += result.analyzed
		ts.Qualified += result.qualified
		p.publish(ctx, logger, result.created)
	}

	return nil
}

// filterByKeywords keeps leads mentioning at least one tenant keyword and records which.
func filterByKeywords(leads []domain.GlobalLead, keywords []string) []domain.GlobalLead {
	var matched []domain.GlobalLead
	for _, lead := range leads {
		kws := ranking.MatchKeywords(lead.Title+" "+lead.Body, keywords)
		if len(kws) == 0 {
			continue
		}
		lead.MatchedKeywords = kws
		matched = append(matched, lead)
	}
	return matched
}

type qualifiedLead struct {
	lead   *domain.TenantLead
	global *domain.GlobalLead
}

type chunkResult struct {
	analyzed  int
	qualified int
	created   []qualifiedLead
}

// persistChunk records reviews and stores qualifying leads of one chunk in a single transaction.
func (p *Pipeline) persistChunk(ctx context.Context, profile domain.TenantProfile, chunk []domain.GlobalLead, quals []domain.Qualification) (chunkResult, error) {
	var result chunkResult

	err := p.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		result = chunkResult{}
		now := p.now()

		for i := range chunk {
			if i >= len(quals) || !quals[i].Analyzed {
				continue
			}
			q := quals[i]
			global := &chunk[i]
			result.analyzed++

			if err := p.leads.RecordReview(txCtx, profile.ID, global.ID, q.Probability); err != nil {
				return fmt.Errorf("record review: %w", err)
			}

			if q.Probability < p.config.Threshold {
				continue
			}
			result.qualified++

			lead := &domain.TenantLead{
				TenantID:        profile.ID,
				GlobalLeadID:    global.ID,
				AIScore:         q.Probability,
				AIReasoning:     q.Reasoning,
				MatchedKeywords: global.MatchedKeywords,
				ProcessedAt:     now,
			}

			id, created, err := p.leads.UpsertTenantLead(txCtx, lead)
			if err != nil {
				return fmt.Errorf("upsert tenant lead: %w", err)
			}
			if created {
				lead.ID = id
				result.created = append(result.created, qualifiedLead{lead: lead, global: global})
			}
		}
		return nil
	})

	return result, err
}

func (p *Pipeline) publish(ctx context.Context, logger *slog.Logger, leads []qualifiedLead) {
	if p.publisher == nil {
		return
	}
	for _, l := range leads {
		if err := p.publisher.Publish(ctx, l.lead, l.global); err != nil {
			logger.Warn("failed to publish qualified lead",
				"tenant_lead_id", l.lead.ID,
				"error", err,
			)
		}
	}
}

func (p *Pipeline) recordCycle(ctx context.Context, logger *slog.Logger, stats *domain.CycleStats) {
	if p.cycles == nil {
		return
	}
	if err := p.cycles.RecordCycle(ctx, stats); err != nil {
		logger.Warn("failed to record cycle", "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
