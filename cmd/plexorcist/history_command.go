package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"plexorcist/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past cleanup runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			if runID != "" {
				return showRunDeletions(cmd, store, runID)
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, historyRow(run))
			}
			totals, err := store.Totals(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Run", "Mode", "Libraries", "Deleted", "Reclaimed", "Failed", "Status", "Took"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight},
				"Total",
				"",
				"",
				"",
				strconv.Itoa(totals.Deleted),
				formatGB(totals.ReclaimedGB),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the items processed by one run")
	return cmd
}

func historyRow(run history.Run) []string {
	mode := "delete"
	if run.DryRun {
		mode = "dry run"
	}
	took := "-"
	if d := run.Duration(); d > 0 {
		took = d.Round(time.Second).String()
	}
	status := string(run.Status)
	if run.Error != "" {
		status += ": " + run.Error
	}
	return []string{
		humanize.Time(run.StartedAt),
		shortID(run.ID),
		mode,
		strconv.Itoa(run.Libraries),
		strconv.Itoa(run.Deleted),
		formatGB(run.ReclaimedGB),
		strconv.Itoa(run.Failed),
		status,
		took,
	}
}

func showRunDeletions(cmd *cobra.Command, store *history.Store, runID string) error {
	run, err := store.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}
	deletions, err := store.Deletions(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s started %s (%s)\n", run.ID, run.StartedAt.Local().Format(time.DateTime), humanize.Time(run.StartedAt))
	if len(deletions) == 0 {
		fmt.Fprintln(out, "No items processed")
		return nil
	}
	rows := make([][]string, 0, len(deletions))
	for _, d := range deletions {
		rows = append(rows, []string{
			strconv.Itoa(d.LibraryID),
			d.Title,
			humanize.IBytes(uint64(d.SizeMB * 1024 * 1024)),
			yesNo(d.Confirmed),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Library", "Title", "Size", "Confirmed"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func formatGB(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64) + " GB"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
