package cleanup

import (
	"context"
	"log/slog"
	"math"

	"plexorcist/internal/config"
	"plexorcist/internal/logging"
	"plexorcist/internal/services/plex"
	"plexorcist/internal/textutil"
)

// Deleter removes a single item from the media server.
type Deleter interface {
	DeleteItem(ctx context.Context, key string) bool
}

// Outcome records one processed entry.
type Outcome struct {
	Key       string
	Title     string
	MB        float64
	Confirmed bool
}

// Summary is the result of processing one library.
type Summary struct {
	LibraryID   int
	MediaType   string
	DryRun      bool
	Count       int
	ReclaimedGB float64
	Titles      []string
	Skipped     []string
	Failed      int
	Outcomes    []Outcome
}

// Options controls engine behaviour.
type Options struct {
	DryRun           bool
	StrictAccounting bool
	Messages         config.Messages
}

// Engine applies the whitelist and deletes entries.
type Engine struct {
	deleter   Deleter
	whitelist Whitelist
	opts      Options
	logger    *slog.Logger
}

// NewEngine constructs an engine. Empty message templates fall back to the
// defaults.
func NewEngine(deleter Deleter, whitelist Whitelist, opts Options, logger *slog.Logger) *Engine {
	if opts.Messages == (config.Messages{}) {
		opts.Messages = config.DefaultMessages()
	}
	return &Engine{
		deleter:   deleter,
		whitelist: whitelist,
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "cleanup"),
	}
}

// Process deletes the eligible entries of one library. mediaType is the
// library's view group; it decides how display titles are built.
func (e *Engine) Process(ctx context.Context, eligible []plex.Entry, mediaType string) Summary {
	logger := logging.WithContext(ctx, e.logger)
	summary := Summary{MediaType: mediaType, DryRun: e.opts.DryRun}
	series := IsSeries(mediaType)

	var totalMB float64
	for _, entry := range eligible {
		if ctx.Err() != nil {
			logging.WarnWithContext(logger, "cleanup interrupted", "cleanup_interrupted",
				logging.Int("remaining", len(eligible)-len(summary.Outcomes)-len(summary.Skipped)),
				logging.Impact("remaining items left on server"),
			)
			break
		}

		title := DisplayTitle(entry, series)
		if rule, ok := e.whitelist.Match(title, entry.ParentTitle); ok {
			attrs := logging.DecisionAttrs("whitelist", "skip", rule)
			attrs = append(attrs, logging.ItemKey(entry.Key))
			logger.Info(textutil.FormatMessage(e.opts.Messages.Whitelisted, title), logging.Args(attrs...)...)
			summary.Skipped = append(summary.Skipped, title)
			continue
		}

		outcome := Outcome{Key: entry.Key, Title: title, MB: BytesToMB(entry.SizeBytes)}
		if e.opts.DryRun {
			logger.Info("would remove item",
				logging.Title(title),
				logging.Size(entry.SizeBytes),
			)
		} else {
			outcome.Confirmed = e.deleter.DeleteItem(ctx, entry.Key)
			if !outcome.Confirmed {
				summary.Failed++
				impact := "item still counted as removed"
				if e.opts.StrictAccounting {
					impact = "item not counted"
				}
				logging.WarnWithContext(logger, "delete not confirmed", "deletion_failed",
					logging.Title(title),
					logging.ItemKey(entry.Key),
					logging.Hint("check the server log and the token's permission to delete media"),
					logging.Impact(impact),
				)
			} else {
				logger.Debug("item removed",
					logging.Title(title),
					logging.Size(entry.SizeBytes),
				)
			}
		}
		summary.Outcomes = append(summary.Outcomes, outcome)

		if !e.opts.DryRun && e.opts.StrictAccounting && !outcome.Confirmed {
			continue
		}
		summary.Count++
		summary.Titles = append(summary.Titles, title)
		totalMB += outcome.MB
	}
	summary.ReclaimedGB = Round2(totalMB / 1024)
	return summary
}

// IsSeries reports whether a library view group holds episodic content whose
// titles are prefixed with the series name.
func IsSeries(mediaType string) bool {
	switch mediaType {
	case "show", "episode":
		return true
	default:
		return false
	}
}

// DisplayTitle builds the title used for whitelist matching and reports:
// "Series - Episode" for series, the plain title otherwise.
func DisplayTitle(entry plex.Entry, series bool) string {
	if series && entry.ParentTitle != "" {
		return entry.ParentTitle + " - " + entry.Title
	}
	return entry.Title
}

// BytesToMB converts a byte count to mebibytes rounded to two decimals.
func BytesToMB(size int64) float64 {
	return Round2(float64(size) / 1024 / 1024)
}

// Round2 rounds half away from zero to two decimals.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
