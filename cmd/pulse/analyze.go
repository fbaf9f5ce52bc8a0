package main

import (
	"context"

	"github.com/spf13/cobra"
)

var analyzeProjectID string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one bottleneck analysis pass",
	Long: `Analyze scans projects for delivery bottlenecks (overdue tasks,
overloaded assignees, blocked work, dependency chains, stale tasks, low
velocity) and emits deduplicated alerts. Without --project it covers
every project.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		summary, err := rt.engine.RunBottlenecks(context.Background(), analyzeProjectID)
		if err != nil {
			return err
		}

		printBottleneckSummary(summary)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeProjectID, "project", "", "analyze a single project")
}
