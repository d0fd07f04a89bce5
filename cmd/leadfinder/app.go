package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"lead_finder/internal/config"
	"lead_finder/internal/llm"
	"lead_finder/internal/llm/anthropic"
	"lead_finder/internal/llm/openai"
	"lead_finder/internal/publisher"
	"lead_finder/internal/qualify"
	"lead_finder/internal/service"
	"lead_finder/internal/source/reddit"
	"lead_finder/internal/storage/postgres"
)

// app holds the wired pipeline and the resources it owns.
type app struct {
	db        *sqlx.DB
	leads     *postgres.LeadStore
	cycles    *postgres.CycleStore
	publisher *publisher.RabbitMQ
	pipeline  *service.Pipeline
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			logger.Warn("failed to close publisher", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

func openDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
	return db, nil
}

// initApp connects to the database and message broker and builds the pipeline.
// Callers should defer app.Close().
func initApp(ctx context.Context, migrate bool) (*app, error) {
	db, err := openDB(ctx)
	if err != nil {
		return nil, err
	}
	a := &app{
		db:     db,
		leads:  postgres.NewLeadStore(db),
		cycles: postgres.NewCycleStore(db),
	}

	if migrate {
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("database migrated", "applied", applied)
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbit, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.publisher = rabbit
		pub = rabbit
	}

	a.pipeline = service.NewPipeline(
		newSource(cfg),
		a.leads,
		a.cycles,
		newAnalyzer(cfg),
		postgres.NewTransactionManager(db),
		pub,
		logger,
		cfg.Pipeline,
	)
	return a, nil
}

func newSource(cfg *config.Config) *reddit.Source {
	timeRange := cfg.Reddit.TimeRange
	if timeRange == "" {
		timeRange = reddit.TimeRangeFor(cfg.Pipeline.Interval)
	}

	return reddit.New(reddit.Config{
		SearchURL:           cfg.Reddit.SearchURL,
		FeedURL:             cfg.Reddit.FeedURL,
		Timeout:             cfg.Reddit.Timeout,
		Sort:                cfg.Reddit.Sort,
		TimeRange:           timeRange,
		Limit:               cfg.Reddit.Limit,
		UserAgents:          cfg.Reddit.UserAgents,
		MaxKeywordsPerBatch: cfg.Reddit.MaxKeywordsPerBatch,
		MaxQueryLength:      cfg.Reddit.MaxQueryLength,
		RateLimitCooldown:   cfg.Reddit.RateLimitCooldown,
		Pacing: reddit.PacerConfig{
			MinDelay:          cfg.Reddit.MinDelay,
			MaxDelay:          cfg.Reddit.MaxDelay,
			EscalateEvery:     cfg.Reddit.EscalateEvery,
			EscalationFactor:  cfg.Reddit.EscalationFactor,
			RequestsPerMinute: cfg.Reddit.RequestsPerMinute,
		},
	}, logger)
}

func newCompleter(ai config.AIConfig) llm.Completer {
	if ai.Provider == config.ProviderAnthropic {
		return anthropic.New(anthropic.Config{
			BaseURL: ai.BaseURL,
			APIKey:  ai.APIKey,
			Model:   ai.Model,
			Timeout: ai.Timeout,
		})
	}
	return openai.New(openai.Config{
		BaseURL: ai.BaseURL,
		APIKey:  ai.APIKey,
		Model:   ai.Model,
		Timeout: ai.Timeout,
	})
}

func newAnalyzer(cfg *config.Config) *qualify.Analyzer {
	return qualify.New(newCompleter(cfg.AI), qualify.Config{
		BatchSize:     cfg.AI.BatchSize,
		MaxTokens:     cfg.AI.MaxTokens,
		Temperature:   *cfg.AI.Temperature,
		RetryAttempts: cfg.AI.Retry.MaxAttempts,
		RetryBackoff:  cfg.AI.Retry.Backoff,
	}, logger)
}
