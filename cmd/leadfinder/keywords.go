package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lead_finder/internal/domain"
	"lead_finder/internal/qualify"
	"lead_finder/internal/storage/postgres"
)

var (
	suggestName        string
	suggestWebsite     string
	suggestDescription string
	suggestTenantID    int64
	suggestSave        bool
)

var suggestKeywordsCmd = &cobra.Command{
	Use:   "suggest-keywords",
	Short: "Ask the chat model for tracking keywords for a business",
	RunE: func(cmd *cobra.Command, args []string) error {
		if suggestSave && suggestTenantID == 0 {
			return errors.New("--save requires --tenant-id")
		}
		ctx := cmd.Context()

		suggestions, err := newAnalyzer(cfg).SuggestKeywords(ctx, suggestName, suggestWebsite, suggestDescription)
		if err != nil {
			return err
		}
		printSuggestions(cmd.OutOrStdout(), suggestions)

		if !suggestSave {
			return nil
		}

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		keywords := make([]domain.Keyword, len(suggestions))
		for i, s := range suggestions {
			keywords[i] = s.Keyword
		}
		added, err := postgres.NewLeadStore(db).AddKeywords(ctx, suggestTenantID, keywords)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d new keyword(s) for tenant %d\n", added, suggestTenantID)
		return nil
	},
}

func printSuggestions(w io.Writer, suggestions []qualify.KeywordSuggestion) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEYWORD\tPRIORITY\tREASON")
	for _, s := range suggestions {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Keyword.Text, s.Priority, s.Reason)
	}
	tw.Flush()
}

func init() {
	f := suggestKeywordsCmd.Flags()
	f.StringVar(&suggestName, "name", "", "business name")
	f.StringVar(&suggestWebsite, "website", "", "business website URL")
	f.StringVar(&suggestDescription, "description", "", "what the business sells")
	f.Int64Var(&suggestTenantID, "tenant-id", 0, "tenant to store the keywords for")
	f.BoolVar(&suggestSave, "save", false, "store suggested keywords for --tenant-id")
	_ = suggestKeywordsCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(suggestKeywordsCmd)
}
