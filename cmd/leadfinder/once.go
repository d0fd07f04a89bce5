package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lead_finder/internal/domain"
)

var onceMigrate bool

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single cycle and print its statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Pipeline.CycleTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Pipeline.CycleTimeout)
			defer cancel()
		}

		a, err := initApp(ctx, onceMigrate)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.pipeline.RunCycle(ctx)
		if stats != nil {
			printStats(os.Stdout, stats)
		}
		return err
	},
}

func printStats(w io.Writer, stats *domain.CycleStats) {
	fmt.Fprintf(w, "cycle %s: %d keywords, %d discovered, %d unique, %d stored, %d duplicates, %d store errors, %s\n",
		stats.CycleID, stats.Keywords, stats.Discovered, stats.Unique, stats.Stored,
		stats.Duplicates, stats.StoreErrors, stats.Duration.Round(time.Millisecond))

	if len(stats.Tenants) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TENANT\tNAME\tUNPROCESSED\tMATCHED\tANALYZED\tQUALIFIED\tSTATUS")
	for _, t := range stats.Tenants {
		status := "ok"
		if t.Failed {
			status = "failed"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			t.TenantID, t.TenantName, t.Unprocessed, t.Matched, t.Analyzed, t.Qualified, status)
	}
	tw.Flush()
}

func init() {
	onceCmd.Flags().BoolVar(&onceMigrate, "migrate", false, "apply database migrations before running")
	rootCmd.AddCommand(onceCmd)
}
