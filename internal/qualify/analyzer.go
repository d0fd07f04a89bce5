// Package qualify asks a chat model how likely each lead is to be a genuine prospect for a tenant.
package qualify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lead_finder/internal/domain"
	"lead_finder/internal/llm"
	"lead_finder/internal/retry"
)

const (
	ReasoningBatchFailed = "Batch analysis failed"
	ReasoningNotFound    = "Analysis not found"

	DefaultBatchSize    = 5
	DefaultMaxTokens    = 1200
	DefaultTemperature  = 0.7
	DefaultRetryBackoff = 2 * time.Second

	maxSuggestedKeywords = 20
	keywordMaxTokens     = 800
)

var ErrNoKeywords = errors.New("no keywords suggested")

// Config holds analyzer settings.
type Config struct {
	BatchSize     int
	MaxTokens     int
	Temperature   float64
	RetryAttempts int
	RetryBackoff  time.Duration
}

// Analyzer qualifies leads in batches through a chat model.
type Analyzer struct {
	completer llm.Completer
	cfg       Config
	logger    *slog.Logger
}

func New(completer llm.Completer, cfg Config, logger *slog.Logger) *Analyzer {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxTokens < 1 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 2
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	return &Analyzer{
		completer: completer,
		cfg:       cfg,
		logger:    logger.With("component", "qualify"),
	}
}

// BatchSize is the number of leads sent to the model per request.
func (a *Analyzer) BatchSize() int {
	return a.cfg.BatchSize
}

// Qualify returns one verdict per lead, in input order. Model failures never surface as errors:
// they degrade to fallback verdicts with Analyzed=false. Only cancellation of ctx is returned.
func (a *Analyzer) Qualify(ctx context.Context, profile domain.TenantProfile, leads []domain.GlobalLead) ([]domain.Qualification, error) {
	out := make([]domain.Qualification, 0, len(leads))

	for start := 0; start < len(leads); start += a.cfg.BatchSize {
		end := min(start+a.cfg.BatchSize, len(leads))

		quals, err := a.qualifyBatch(ctx, profile, leads[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, quals...)
	}

	return out, nil
}

func (a *Analyzer) qualifyBatch(ctx context.Context, profile domain.TenantProfile, leads []domain.GlobalLead) ([]domain.Qualification, error) {
	logger := a.logger.With("tenant_id", profile.ID, "leads", len(leads))

	raw, err := a.complete(ctx, logger, llm.ChatRequest{
		System:      qualifySystemPrompt,
		User:        buildQualifyPrompt(profile, leads),
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("qualification request failed", "error", err)
		return batchFailed(len(leads)), nil
	}

	quals, err := parseQualifications(raw, len(leads))
	if err != nil {
		logger.Warn("failed to parse qualification response",
			"error", err,
			"response", truncate(raw, 500),
		)
		return batchFailed(len(leads)), nil
	}

	return quals, nil
}

// SuggestKeywords derives tracking keywords for a business from its website and description.
func (a *Analyzer) SuggestKeywords(ctx context.Context, name, website, description string) ([]KeywordSuggestion, error) {
	raw, err := a.complete(ctx, a.logger.With("business", name), llm.ChatRequest{
		System:      keywordSystemPrompt,
		User:        buildKeywordPrompt(name, website, description),
		MaxTokens:   keywordMaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("request keywords: %w", err)
	}

	suggestions, err := parseKeywordSuggestions(raw)
	if err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	if len(suggestions) == 0 {
		return nil, ErrNoKeywords
	}
	if len(suggestions) > maxSuggestedKeywords {
		suggestions = suggestions[:maxSuggestedKeywords]
	}
	return suggestions, nil
}

func (a *Analyzer) complete(ctx context.Context, logger *slog.Logger, req llm.ChatRequest) (string, error) {
	policy := retry.Policy{
		MaxAttempts: a.cfg.RetryAttempts,
		Backoff:     a.cfg.RetryBackoff,
		Retryable:   retry.IsTimeout,
		OnRetry: func(attempt int, err error) {
			logger.Warn("model request timed out, retrying",
				"attempt", attempt,
				"backoff", a.cfg.RetryBackoff,
				"error", err,
			)
		},
	}

	return retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return a.completer.Complete(ctx, req)
	})
}

func batchFailed(n int) []domain.Qualification {
	out := make([]domain.Qualification, n)
	for i := range out {
		out[i] = domain.Qualification{Reasoning: ReasoningBatchFailed}
	}
	return out
}

func notFound() domain.Qualification {
	return domain.Qualification{Reasoning: ReasoningNotFound}
}
