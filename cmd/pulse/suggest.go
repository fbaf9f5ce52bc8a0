package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	suggestProfileID string
	suggestLimit     int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Run one match-suggestion pass",
	Long: `Suggest scores profiles against each other over the relationship
graph and emits deduplicated connection suggestions. Without --profile
it covers every profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		summary, err := rt.engine.RunSuggestions(context.Background(), suggestProfileID, suggestLimit)
		if err != nil {
			return err
		}

		printSuggestionSummary(summary)
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVar(&suggestProfileID, "profile", "", "suggest for a single profile")
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "max suggestions per profile (0 = configured default)")
}
