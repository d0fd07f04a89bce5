package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"lead_finder/internal/config"
	"lead_finder/internal/domain"
)

// Runner runs one discovery-and-qualification cycle.
type Runner interface {
	RunCycle(ctx context.Context) (*domain.CycleStats, error)
}

// Observer is told about every finished cycle. stats may be nil when the cycle panicked.
type Observer interface {
	ObserveCycle(stats *domain.CycleStats, err error)
}

type Scheduler struct {
	runner   Runner
	schedule cron.Schedule
	timeout  time.Duration
	cooldown time.Duration
	observer Observer
	logger   *slog.Logger
	trigger  chan string

	now func() time.Time
}

// NewScheduler builds a scheduler from the pipeline settings. A cron expression takes
// precedence over the fixed interval. observer may be nil.
func NewScheduler(runner Runner, cfg config.PipelineConfig, observer Observer, logger *slog.Logger) (*Scheduler, error) {
	var schedule cron.Schedule
	if cfg.Cron != "" {
		parsed, err := cron.ParseStandard(cfg.Cron)
		if err != nil {
			return nil, fmt.Errorf("parse cron %q: %w", cfg.Cron, err)
		}
		schedule = parsed
	} else {
		if cfg.Interval <= 0 {
			return nil, errors.New("interval must be positive")
		}
		schedule = cron.Every(cfg.Interval)
	}

	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		timeout:  cfg.CycleTimeout,
		cooldown: cfg.Cooldown,
		observer: observer,
		logger:   logger.With("component", "scheduler"),
		trigger:  make(chan string, 1),
		now:      time.Now,
	}, nil
}

// Trigger asks for an extra cycle. Requests arriving while one is already pending are
// merged into it. It reports whether the request was queued.
func (s *Scheduler) Trigger(reason string) bool {
	select {
	case s.trigger <- reason:
		return true
	default:
		return false
	}
}

// Start runs a cycle immediately and then on every schedule tick or manual trigger until
// ctx is cancelled. Cycles never overlap.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started")

	ok := s.runCycle(ctx, "startup")

	for {
		next := s.schedule.Next(s.now())
		if !ok && s.cooldown > 0 {
			if retryAt := s.now().Add(s.cooldown); retryAt.Before(next) {
				next = retryAt
			}
		}
		s.logger.Info("next cycle scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			ok = s.runCycle(ctx, "schedule")
		case reason := <-s.trigger:
			timer.Stop()
			ok = s.runCycle(ctx, reason)
		}
	}
}

// runCycle reports whether the cycle finished without a top-level failure.
func (s *Scheduler) runCycle(ctx context.Context, reason string) (ok bool) {
	cycleCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("cycle panicked: %v", r)
			s.logger.Error("cycle failed", "reason", reason, "error", err)
			s.observe(nil, err)
			ok = false
		}
	}()

	s.logger.Info("running cycle", "reason", reason)

	stats, err := s.runner.RunCycle(cycleCtx)
	s.observe(stats, err)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		s.logger.Error("cycle failed", "reason", reason, "error", err)
		return false
	}
	return true
}

func (s *Scheduler) observe(stats *domain.CycleStats, err error) {
	if s.observer != nil {
		s.observer.ObserveCycle(stats, err)
	}
}
