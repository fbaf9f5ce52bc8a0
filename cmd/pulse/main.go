package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crewline/pulse/internal/ui"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "pulse <command>",
	Short: "Bottleneck and match-suggestion analysis for the platform",
	Long: `pulse scans project and profile records for delivery bottlenecks and
social match opportunities, and turns its findings into deduplicated
notifications.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(notificationsCmd)
}

func main() {
	if !ui.ColorEnabled(os.Stdout) {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
