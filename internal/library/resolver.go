// Package library maps configured library selectors to Plex section IDs.
//
// A selector is either a numeric section ID, used as-is, or a section name
// compared with Unicode case folding against the server's section list. The
// section list is fetched lazily, at most once per Resolve call.
package library

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"plexorcist/internal/logging"
	"plexorcist/internal/services"
	"plexorcist/internal/services/plex"
	"plexorcist/internal/textutil"
)

// SectionLister returns the sections available on the server.
type SectionLister interface {
	ListSections(ctx context.Context) ([]plex.Section, bool)
}

// Resolver turns selectors into canonical section IDs.
type Resolver struct {
	lister SectionLister
	logger *slog.Logger
}

// NewResolver constructs a resolver backed by lister.
func NewResolver(lister SectionLister, logger *slog.Logger) *Resolver {
	return &Resolver{lister: lister, logger: logging.NewComponentLogger(logger, "library")}
}

// Resolve returns section IDs in selector order. Blank selectors are skipped,
// unknown names are dropped with a warning, and repeated IDs are kept once.
// When the section list is needed but cannot be fetched, Resolve returns an
// empty slice.
func (r *Resolver) Resolve(ctx context.Context, selectors []string) []int {
	logger := logging.WithContext(ctx, r.logger)

	var (
		sections []plex.Section
		fetched  bool
	)
	ids := make([]int, 0, len(selectors))
	seen := make(map[int]struct{}, len(selectors))
	add := func(id int) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, selector := range selectors {
		selector = strings.TrimSpace(selector)
		if selector == "" {
			continue
		}
		if id, ok := parseID(selector); ok {
			add(id)
			continue
		}
		if !fetched {
			list, ok := r.lister.ListSections(ctx)
			if !ok {
				logging.ErrorWithContext(logger, "library sections unavailable", "library_sections_unavailable",
					logging.Hint("check plex.host, plex.port and plex.token"),
				)
				return []int{}
			}
			sections = list
			fetched = true
		}
		id, ok := LookupByName(selector, sections)
		if !ok {
			err := services.Wrap(services.ErrNotFound, "library", "resolve", selector, nil)
			logging.WarnWithContext(logger, "library not found", "library_not_found",
				logging.String("selector", selector),
				logging.Error(err),
				logging.Hint("run 'plexorcist libraries' to list section names"),
				logging.Impact("library skipped"),
			)
			continue
		}
		logger.Debug("library resolved",
			logging.String("selector", selector),
			logging.Int("section_id", id),
		)
		add(id)
	}
	return ids
}

// LookupByName finds the section whose title matches name under Unicode case
// folding. The first match wins.
func LookupByName(name string, sections []plex.Section) (int, bool) {
	for _, section := range sections {
		if textutil.EqualFold(section.Title, name) {
			return section.ID, true
		}
	}
	return 0, false
}

func parseID(selector string) (int, bool) {
	for _, r := range selector {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(selector)
	if err != nil {
		return 0, false
	}
	return id, true
}
