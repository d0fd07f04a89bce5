package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"lead_finder/internal/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := postgres.NewCycleStore(db).LastCycle(ctx)
		if err != nil {
			return err
		}
		printCycleRun(cmd.OutOrStdout(), run)
		return nil
	},
}

func printCycleRun(w io.Writer, run *postgres.CycleRun) {
	if run == nil {
		fmt.Fprintln(w, "No cycles recorded yet.")
		return
	}
	fmt.Fprintf(w, "Last cycle:     %s\n", run.CycleID)
	fmt.Fprintf(w, "Started:        %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Duration:       %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	fmt.Fprintf(w, "Keywords:       %d\n", run.Keywords)
	fmt.Fprintf(w, "Discovered:     %d\n", run.Discovered)
	fmt.Fprintf(w, "Stored:         %d\n", run.Stored)
	fmt.Fprintf(w, "Duplicates:     %d\n", run.Duplicates)
	fmt.Fprintf(w, "Store errors:   %d\n", run.StoreErrors)
	fmt.Fprintf(w, "Qualified:      %d\n", run.Qualified)
	fmt.Fprintf(w, "Failed tenants: %d\n", run.FailedTenants)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
