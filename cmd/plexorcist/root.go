package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	var configFileFlag string
	var opts runOptions

	ctx := newCommandContext(&configFileFlag)

	rootCmd := &cobra.Command{
		Use:           "plexorcist",
		Short:         "Delete watched media from Plex libraries",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) || (cmd == cmd.Root() && opts.configure) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configure {
				return runConfigure(cmd, ctx)
			}
			return runCleanup(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFileFlag, "config-file", "c", "", "Configuration file path")
	rootCmd.Flags().BoolVar(&opts.configure, "config", false, "Update the configuration interactively instead of running")
	rootCmd.Flags().BoolVar(&opts.showLog, "show-log", false, "Print the log file after the run")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Report what would be deleted without deleting anything")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newLibrariesCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))

	return rootCmd
}
