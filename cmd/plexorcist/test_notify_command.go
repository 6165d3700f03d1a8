package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"plexorcist/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to every configured channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			dispatcher := newDispatcher(cfg, logger)
			out := cmd.OutOrStdout()
			if !dispatcher.Enabled() {
				fmt.Fprintln(out, "No notification channels configured")
				return nil
			}

			total := len(dispatcher.Channels())
			sent := dispatcher.Dispatch(cmd.Context(), notifications.Message{
				Title: productName,
				Body:  "Test notification from " + productName,
				Tags:  []string{"plexorcist", "test"},
			})
			fmt.Fprintf(out, "Test notification sent to %d of %d channels\n", sent, total)
			if sent == 0 {
				return errors.New("notification not sent")
			}
			return nil
		},
	}
}
