package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"plexorcist/internal/history"
	"plexorcist/internal/logging"
	"plexorcist/internal/logs"
	"plexorcist/internal/report"
	"plexorcist/internal/workflow"
)

const showLogFallbackLines = 200

type runOptions struct {
	configure bool
	showLog   bool
	dryRun    bool
}

func runCleanup(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logPath := cfg.LogFilePath()
	offset, offsetErr := logs.Offset(logPath)

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runnerOpts := []workflow.Option{workflow.WithDryRun(opts.dryRun)}
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.Hint("run `plexorcist doctor` to inspect the data directory"),
			logging.Impact("this run is not recorded"),
		)
	} else {
		defer store.Close()
		runnerOpts = append(runnerOpts, workflow.WithRecorder(store))
	}

	reporter := report.NewReporter(cfg, newDispatcher(cfg, logger), logger)
	runner, err := workflow.NewRunner(cfg, newPlexClient(cfg, logger), reporter, logger, runnerOpts...)
	if err != nil {
		return err
	}

	_, runErr := runner.Run(runCtx)
	if opts.showLog {
		if err := printRunLog(cmd, logPath, offset, offsetErr == nil); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "show log: %v\n", err)
		}
	}
	return runErr
}

// printRunLog echoes the lines this run appended to the log file, or the
// file's tail when the starting offset is unknown.
func printRunLog(cmd *cobra.Command, path string, offset int64, haveOffset bool) error {
	var (
		lines []string
		err   error
	)
	if haveOffset {
		lines, err = logs.ReadFrom(path, offset)
	} else {
		lines, err = logs.LastLines(path, showLogFallbackLines)
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n== %s ==\n", path)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
