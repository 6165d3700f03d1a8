package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"plexorcist/internal/library"
	"plexorcist/internal/services/plex"
)

func newLibrariesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List the Plex library sections and which ones are selected",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			sections, ok := newPlexClient(cfg, logger).ListSections(cmd.Context())
			if !ok {
				return fmt.Errorf("list libraries from %s failed; run `plexorcist doctor` for details", cfg.BaseURL())
			}
			out := cmd.OutOrStdout()
			if len(sections) == 0 {
				fmt.Fprintln(out, "Server has no library sections")
				return nil
			}

			selected := make(map[int]bool)
			for _, id := range library.NewResolver(staticSections(sections), logger).Resolve(cmd.Context(), cfg.Plex.Libraries) {
				selected[id] = true
			}

			rows := make([][]string, 0, len(sections))
			for _, s := range sections {
				rows = append(rows, []string{strconv.Itoa(s.ID), s.Title, s.Type, yesNo(selected[s.ID])})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Type", "Selected"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

// staticSections serves an already fetched section list to the resolver.
type staticSections []plex.Section

func (s staticSections) ListSections(context.Context) ([]plex.Section, bool) {
	return s, true
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
