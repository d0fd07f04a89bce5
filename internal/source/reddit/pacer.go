package reddit

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// PacerConfig configures request pacing.
type PacerConfig struct {
	MinDelay          time.Duration
	MaxDelay          time.Duration
	EscalateEvery     int
	EscalationFactor  float64
	RequestsPerMinute float64
}

// Pacer spaces out source requests: a token bucket caps the request rate and a
// randomized pause follows every call, stretched on every EscalateEvery-th call.
// It is owned by a single Source and is not safe for concurrent use.
type Pacer struct {
	minDelay time.Duration
	maxDelay time.Duration
	every    int
	factor   float64
	limiter  *rate.Limiter
	calls    int

	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewPacer(cfg PacerConfig) *Pacer {
	p := &Pacer{
		minDelay: cfg.MinDelay,
		maxDelay: cfg.MaxDelay,
		every:    cfg.EscalateEvery,
		factor:   cfg.EscalationFactor,
		jitter:   rand.Float64,
		sleep:    sleepContext,
	}
	if p.maxDelay < p.minDelay {
		p.maxDelay = p.minDelay
	}
	if p.factor <= 0 {
		p.factor = 1
	}
	if cfg.RequestsPerMinute > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60), 1)
	}
	return p
}

// Acquire blocks until the request ceiling allows another call.
func (p *Pacer) Acquire(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

// NextDelay records a call and returns the pause that should follow it.
func (p *Pacer) NextDelay() time.Duration {
	p.calls++

	delay := float64(p.minDelay) + p.jitter()*float64(p.maxDelay-p.minDelay)
	if p.every > 0 && p.calls%p.every == 0 {
		delay *= p.factor
	}
	return time.Duration(delay)
}

// Pause sleeps for the next delay.
func (p *Pacer) Pause(ctx context.Context) error {
	return p.sleep(ctx, p.NextDelay())
}

// Calls returns the number of calls paced so far.
func (p *Pacer) Calls() int {
	return p.calls
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
