package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"lead_finder/internal/domain"
	"lead_finder/internal/ranking"
)

const (
	SourceID   = domain.SourceReddit
	SourceName = "Reddit"

	DefaultSearchURL         = "https://www.reddit.com/search.json"
	DefaultFeedURL           = "https://www.reddit.com/search.rss"
	DefaultLimit             = 100
	DefaultRateLimitCooldown = 15 * time.Second

	maxResultsPerRequest = 100
	maxResponseBytes     = 8 << 20
)

var (
	ErrRateLimited = errors.New("rate limited")
	ErrForbidden   = errors.New("forbidden")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Strategy string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Strategy, e.Code)
}

// Is maps 429 to ErrRateLimited and 403 to ErrForbidden.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Code == http.StatusTooManyRequests
	case ErrForbidden:
		return e.Code == http.StatusForbidden
	}
	return false
}

// Config holds Reddit source configuration.
type Config struct {
	SearchURL           string
	FeedURL             string
	Timeout             time.Duration
	Sort                string
	TimeRange           string
	Limit               int
	UserAgents          []string
	MaxKeywordsPerBatch int
	MaxQueryLength      int
	RateLimitCooldown   time.Duration
	Pacing              PacerConfig
}

// strategy is one way of running a search query. Strategies are tried in order per batch.
type strategy interface {
	name() string
	search(ctx context.Context, query string, limit int) ([]domain.CandidatePost, error)
}

// Source implements service.Source for Reddit.
type Source struct {
	client     *httpClient
	strategies []strategy
	pacer      *Pacer

	limit          int
	maxKeywords    int
	maxQueryLength int
	cooldown       time.Duration

	sleep  func(ctx context.Context, d time.Duration) error
	logger *slog.Logger
}

// New creates a new Reddit source with the search and feed strategies.
func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}
	if cfg.Sort == "" {
		cfg.Sort = "new"
	}
	if cfg.TimeRange == "" {
		cfg.TimeRange = "week"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if len(cfg.UserAgents) == 0 {
		cfg.UserAgents = []string{"lead_finder/1.0"}
	}

	pacer := NewPacer(cfg.Pacing)
	client := &httpClient{
		http:       &http.Client{Timeout: cfg.Timeout},
		userAgents: cfg.UserAgents,
		pacer:      pacer,
	}
	logger = logger.With("source", SourceID)

	return &Source{
		client: client,
		strategies: []strategy{
			&searchStrategy{client: client, endpoint: cfg.SearchURL, sort: cfg.Sort, timeRange: cfg.TimeRange},
			&feedStrategy{client: client, endpoint: cfg.FeedURL, sort: cfg.Sort, timeRange: cfg.TimeRange},
		},
		pacer:          pacer,
		limit:          cfg.Limit,
		maxKeywords:    cfg.MaxKeywordsPerBatch,
		maxQueryLength: cfg.MaxQueryLength,
		cooldown:       cfg.RateLimitCooldown,
		sleep:          sleepContext,
		logger:         logger,
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// TimeRangeFor maps a scrape interval to the coarsest search time filter that covers it.
func TimeRangeFor(interval time.Duration) string {
	days := interval.Hours() / 24
	switch {
	case days <= 1:
		return "day"
	case days <= 7:
		return "week"
	case days <= 30:
		return "month"
	default:
		return "year"
	}
}

// FetchCandidates searches for posts matching any of the keywords. Failures of individual
// batches are logged and skipped; the only error returned is context cancellation.
func (s *Source) FetchCandidates(ctx context.Context, keywords []string) ([]domain.CandidatePost, error) {
	batches := BatchKeywords(keywords, s.maxKeywords, s.maxQueryLength)
	if len(batches) == 0 {
		return nil, nil
	}

	perBatch := perBatchLimit(s.limit, len(batches))
	s.logger.Info("fetching candidates",
		"keywords", len(keywords),
		"batches", len(batches),
		"per_batch_limit", perBatch,
	)

	var all []domain.CandidatePost
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		posts := s.fetchBatch(ctx, i+1, batch, perBatch)
		all = append(all, posts...)

		if len(all) >= s.limit {
			s.logger.Info("limit reached, stopping early",
				"batch", i+1,
				"collected", len(all),
				"limit", s.limit,
			)
			break
		}
	}

	return all, ctx.Err()
}

func (s *Source) fetchBatch(ctx context.Context, num int, batch []string, limit int) []domain.CandidatePost {
	query := BuildQuery(batch)
	logger := s.logger.With("batch", num, "batch_keywords", len(batch))

	for _, st := range s.strategies {
		posts, err := st.search(ctx, query, limit)
		if perr := s.pacer.Pause(ctx); perr != nil {
			return nil
		}

		switch {
		case errors.Is(err, ErrRateLimited):
			logger.Warn("rate limited, abandoning batch",
				"strategy", st.name(),
				"cooldown", s.cooldown,
			)
			_ = s.sleep(ctx, s.cooldown)
			return nil
		case errors.Is(err, ErrForbidden):
			logger.Warn("strategy rejected, falling through", "strategy", st.name())
			continue
		case err != nil:
			logger.Warn("strategy failed, skipping batch",
				"strategy", st.name(),
				"error", err,
			)
			return nil
		}

		matched := matchPosts(posts, batch)
		if len(matched) > 0 {
			logger.Debug("fetched batch",
				"strategy", st.name(),
				"posts", len(posts),
				"matched", len(matched),
			)
			return matched
		}

		logger.Debug("strategy returned no matching posts",
			"strategy", st.name(),
			"posts", len(posts),
		)
	}

	return nil
}

// matchPosts keeps posts that mention at least one keyword of the batch.
func matchPosts(posts []domain.CandidatePost, batch []string) []domain.CandidatePost {
	var matched []domain.CandidatePost
	for _, p := range posts {
		kws := ranking.MatchKeywords(p.Title+" "+p.Body, batch)
		if len(kws) == 0 {
			continue
		}
		p.MatchedKeywords = kws
		matched = append(matched, p)
	}
	return matched
}

func perBatchLimit(limit, batches int) int {
	n := limit / batches
	if n < 1 {
		n = 1
	}
	if n > maxResultsPerRequest {
		n = maxResultsPerRequest
	}
	return n
}

// httpClient performs paced GET requests with a rotating User-Agent.
type httpClient struct {
	http       *http.Client
	userAgents []string
	next       atomic.Uint64
	pacer      *Pacer
}

func (c *httpClient) get(ctx context.Context, strategy, endpoint string, params url.Values, accept string) ([]byte, error) {
	if err := c.pacer.Acquire(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Strategy: strategy, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (c *httpClient) userAgent() string {
	i := c.next.Add(1) - 1
	return c.userAgents[i%uint64(len(c.userAgents))]
}
