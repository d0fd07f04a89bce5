package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lead_finder/internal/metrics"
	"lead_finder/internal/scheduler"
	"lead_finder/internal/trigger"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run discovery and qualification cycles on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := initApp(ctx, serveMigrate)
		if err != nil {
			return err
		}
		defer a.Close()

		var observer scheduler.Observer
		var cycleMetrics *metrics.Cycle
		if cfg.Metrics.Enabled {
			cycleMetrics = metrics.New()
			observer = cycleMetrics
		}

		sched, err := scheduler.NewScheduler(a.pipeline, cfg.Pipeline, observer, logger)
		if err != nil {
			return err
		}

		var listener *trigger.Listener
		if cfg.Redis.Enabled {
			rdb, err := trigger.NewRedisClient(ctx, cfg.Redis.URL)
			if err != nil {
				return err
			}
			defer rdb.Close()
			listener = trigger.NewListener(rdb, cfg.Redis.Channel, sched, logger)
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return ignoreCanceled(sched.Start(gctx))
		})

		if cycleMetrics != nil {
			g.Go(func() error {
				return cycleMetrics.Serve(gctx, cfg.Metrics.Addr, logger)
			})
		}

		if listener != nil {
			g.Go(func() error {
				return ignoreCanceled(listener.Listen(gctx))
			})
		}

		logger.Info("starting lead finder",
			"interval", cfg.Pipeline.Interval,
			"cron", cfg.Pipeline.Cron,
			"ai_provider", cfg.AI.Provider,
			"publisher", cfg.RabbitMQ.Enabled,
			"trigger", cfg.Redis.Enabled,
			"metrics", cfg.Metrics.Enabled,
		)

		return g.Wait()
	},
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply database migrations before starting")
	rootCmd.AddCommand(serveCmd)
}
