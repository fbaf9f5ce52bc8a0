package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var notificationsLimit int

var notificationsCmd = &cobra.Command{
	Use:   "notifications <recipient>",
	Short: "List notifications for a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		notifications, err := rt.store.ListNotifications(context.Background(), args[0], notificationsLimit)
		if err != nil {
			return fmt.Errorf("list notifications: %w", err)
		}

		if jsonOutput {
			printJSON(notifications)
			return nil
		}
		printNotificationTable(notifications)
		return nil
	},
}

func init() {
	notificationsCmd.Flags().IntVar(&notificationsLimit, "limit", 50, "max notifications to list")
}
