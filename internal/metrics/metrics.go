// Package metrics exposes cycle statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lead_finder/internal/domain"
)

const namespace = "lead_finder"

// Cycle collects per-cycle counters. It satisfies scheduler.Observer.
type Cycle struct {
	registry *prometheus.Registry

	cycles       *prometheus.CounterVec
	duration     prometheus.Histogram
	discovered   prometheus.Counter
	stored       prometheus.Counter
	duplicates   prometheus.Counter
	storeErrors  prometheus.Counter
	qualified    prometheus.Counter
	tenantErrors prometheus.Counter
	lastSuccess  prometheus.Gauge
}

func New() *Cycle {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Cycle{
		registry: reg,
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "runs_total",
			Help:      "Cycles run, by result",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "duration_seconds",
			Help:      "Wall time of completed cycles",
			Buckets:   []float64{10, 30, 60, 120, 300, 600, 1200, 2400, 5400},
		}),
		discovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "posts_total",
			Help:      "Candidate posts returned by the source",
		}),
		stored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "stored_total",
			Help:      "New global leads stored",
		}),
		duplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "duplicates_total",
			Help:      "Candidates already stored by an earlier cycle",
		}),
		storeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "store_errors_total",
			Help:      "Candidates that failed to persist",
		}),
		qualified: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qualification",
			Name:      "leads_total",
			Help:      "Tenant leads at or above the qualification threshold",
		}),
		tenantErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qualification",
			Name:      "tenant_failures_total",
			Help:      "Tenants whose processing was aborted",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cycle",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last cycle that finished without a top-level error",
		}),
	}
}

// ObserveCycle records a finished cycle. stats is nil when the cycle panicked.
func (c *Cycle) ObserveCycle(stats *domain.CycleStats, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.cycles.WithLabelValues(result).Inc()

	if stats == nil {
		return
	}

	c.discovered.Add(float64(stats.Discovered))
	c.stored.Add(float64(stats.Stored))
	c.duplicates.Add(float64(stats.Duplicates))
	c.storeErrors.Add(float64(stats.StoreErrors))
	c.qualified.Add(float64(stats.Qualified()))
	c.tenantErrors.Add(float64(stats.FailedTenants()))

	if err == nil {
		c.duration.Observe(stats.Duration.Seconds())
		c.lastSuccess.Set(float64(stats.StartedAt.Add(stats.Duration).Unix()))
	}
}

func (c *Cycle) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Cycle) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
