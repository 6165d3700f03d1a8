package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"plexorcist/internal/logging"
	"plexorcist/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the server, libraries, notifications and local paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Request failures show up in the check details; the logger only
			// adds noise unless asked for.
			logger := logging.NewNop()
			if verbose {
				logger, err = newLogger(cfg, cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
			}

			results := preflight.RunAll(cmd.Context(), cfg, newPlexClient(cfg, logger))
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderHeader("Plexorcist "+version, colorize))
			for _, result := range results {
				fmt.Fprintln(out, renderCheckLine(result, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log HTTP failures while checking")
	return cmd
}
