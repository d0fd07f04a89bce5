package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lead_finder/internal/trigger"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger [note]",
	Short: "Ask running servers to start a cycle now",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rdb, err := trigger.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		note := "cli"
		if len(args) == 1 {
			note = args[0]
		}

		n, err := trigger.Publish(ctx, rdb, cfg.Redis.Channel, note)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no server is listening; the request was dropped")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "trigger delivered to %d server(s)\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}
