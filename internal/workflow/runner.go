package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"plexorcist/internal/cleanup"
	"plexorcist/internal/config"
	"plexorcist/internal/library"
	"plexorcist/internal/logging"
	"plexorcist/internal/report"
	"plexorcist/internal/services"
	"plexorcist/internal/services/plex"
)

// PlexAPI is the subset of the Plex client the runner needs.
type PlexAPI interface {
	library.SectionLister
	cleanup.Deleter
	AllLeaves(ctx context.Context, sectionID int) (plex.Leaves, bool)
}

// Recorder persists run history. *history.Store satisfies it.
type Recorder interface {
	BeginRun(ctx context.Context, id string, startedAt time.Time, dryRun bool) error
	RecordLibrary(ctx context.Context, runID string, summary cleanup.Summary, at time.Time) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time, runErr error) error
}

// Publisher reports a library summary. *report.Reporter satisfies it.
type Publisher interface {
	Report(ctx context.Context, summary cleanup.Summary) error
}

var _ Publisher = (*report.Reporter)(nil)

// Runner executes cleanup passes.
type Runner struct {
	cfg       *config.Config
	plex      PlexAPI
	publisher Publisher
	recorder  Recorder
	logger    *slog.Logger

	dryRun   bool
	lockPath string
	now      func() time.Time
	newRunID func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithDryRun reports what would be removed without deleting anything.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) {
		r.dryRun = enabled
	}
}

// WithRecorder enables run history.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

// WithClock overrides the time source used for the retention policy and
// history timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRunIDGenerator overrides run ID generation.
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// WithLockPath overrides the lock file location.
func WithLockPath(path string) Option {
	return func(r *Runner) {
		r.lockPath = path
	}
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	DryRun      bool
	Libraries   []cleanup.Summary
	Deleted     int
	Failed      int
	ReclaimedGB float64
}

// NewRunner constructs a runner. A nil publisher only logs through the
// engine; a nil recorder disables history.
func NewRunner(cfg *config.Config, api PlexAPI, publisher Publisher, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil || api == nil {
		return nil, errors.New("workflow runner requires config and plex client")
	}
	r := &Runner{
		cfg:       cfg,
		plex:      api,
		publisher: publisher,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		lockPath:  cfg.LockPath(),
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run performs one cleanup pass. It fails fast when another run holds the
// lock or the retention window is malformed; per-library failures are
// logged and skipped.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	policy, err := r.policy()
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(filepath.Dir(r.lockPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(r.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Result{}, services.Wrap(services.ErrLocked, "workflow", "lock",
			fmt.Sprintf("another plexorcist run holds %s", r.lockPath), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	result := Result{RunID: r.newRunID(), DryRun: r.dryRun}
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, r.logger)
	started := r.now()

	// History writes outlive cancellation so interrupted runs are recorded.
	historyCtx := context.WithoutCancel(ctx)
	recorder := r.recorder
	if recorder != nil {
		if err := recorder.BeginRun(historyCtx, result.RunID, started, r.dryRun); err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_begin_failed",
				logging.Error(err),
				logging.Impact("this run is not recorded"),
			)
			recorder = nil
		}
	}

	logger.Info("cleanup run started",
		logging.Bool("dry_run", r.dryRun),
		logging.Int("selectors", len(r.cfg.Plex.Libraries)),
		logging.Bool("retention_enabled", policy.Enabled()),
	)

	runErr := r.process(ctx, policy, recorder, &result)

	if recorder != nil {
		if err := recorder.FinishRun(historyCtx, result.RunID, r.now(), runErr); err != nil {
			logging.WarnWithContext(logger, "failed to finish run history", "history_finish_failed",
				logging.Error(err),
				logging.Impact("run stays marked as running"),
			)
		}
	}

	attrs := []logging.Attr{
		logging.Int("libraries", len(result.Libraries)),
		logging.Int("deleted", result.Deleted),
		logging.Int("failed", result.Failed),
		logging.ReclaimedGB(result.ReclaimedGB),
		logging.Duration("elapsed", r.now().Sub(started)),
	}
	if runErr != nil {
		logging.ErrorWithContext(logger, "cleanup run aborted", "run_aborted",
			append(attrs, logging.Error(runErr))...)
		return result, runErr
	}
	logger.Info("cleanup run finished", logging.Args(attrs...)...)
	return result, nil
}

func (r *Runner) policy() (Policy, error) {
	return buildPolicy(r.cfg.Cleanup.OlderThan, r.now())
}

func (r *Runner) process(ctx context.Context, policy Policy, recorder Recorder, result *Result) error {
	logger := logging.WithContext(ctx, r.logger)

	resolver := library.NewResolver(r.plex, r.logger)
	ids := resolver.Resolve(ctx, r.cfg.Plex.Libraries)
	if len(ids) == 0 {
		logging.WarnWithContext(logger, "no libraries to process", "no_libraries",
			logging.Any("selectors", r.cfg.Plex.Libraries),
			logging.Hint("check plex.libraries against `plexorcist libraries`"),
			logging.Impact("nothing was deleted"),
		)
		return nil
	}

	engine := cleanup.NewEngine(r.plex,
		cleanup.NewWhitelist(r.cfg.Cleanup.Whitelist, r.cfg.Cleanup.WhitelistPatterns),
		cleanup.Options{
			DryRun:           r.dryRun,
			StrictAccounting: r.cfg.Cleanup.StrictAccounting,
			Messages:         r.cfg.Messages,
		},
		r.logger,
	)

	var totalGB float64
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.ReclaimedGB = cleanup.Round2(totalGB)
			return fmt.Errorf("run interrupted: %w", err)
		}
		summary, processed := r.processLibrary(services.WithLibrary(ctx, id), id, policy, engine)
		if !processed {
			continue
		}
		result.Libraries = append(result.Libraries, summary)
		result.Deleted += summary.Count
		result.Failed += summary.Failed
		totalGB += summary.ReclaimedGB

		if recorder != nil {
			if err := recorder.RecordLibrary(context.WithoutCancel(ctx), result.RunID, summary, r.now()); err != nil {
				logging.WarnWithContext(logger, "failed to record library in history", "history_record_failed",
					logging.LibraryID(id),
					logging.Error(err),
					logging.Impact("history for this library is incomplete"),
				)
			}
		}
	}
	result.ReclaimedGB = cleanup.Round2(totalGB)
	return nil
}

// processLibrary handles one section. It reports false when the section
// could not be fetched or returned no entries.
func (r *Runner) processLibrary(ctx context.Context, id int, policy Policy, engine *cleanup.Engine) (cleanup.Summary, bool) {
	logger := logging.WithContext(ctx, r.logger)

	leaves, ok := r.plex.AllLeaves(ctx, id)
	if !ok {
		logging.WarnWithContext(logger, "library listing unavailable", "library_fetch_failed",
			logging.Impact("library skipped this run"),
		)
		return cleanup.Summary{}, false
	}
	if len(leaves.Entries) == 0 {
		logger.Debug("library is empty", logging.Title(leaves.Title))
		return cleanup.Summary{}, false
	}

	eligible := policy.Filter(leaves.Entries)
	logger.Debug("library scanned",
		logging.Title(leaves.Title),
		logging.String("media_type", leaves.MediaType),
		logging.Int("entries", len(leaves.Entries)),
		logging.Int("eligible", len(eligible)),
	)

	var summary cleanup.Summary
	if len(eligible) == 0 {
		summary = cleanup.Summary{MediaType: leaves.MediaType, DryRun: r.dryRun}
	} else {
		summary = engine.Process(ctx, eligible, leaves.MediaType)
	}
	summary.LibraryID = id

	if r.publisher != nil {
		if err := r.publisher.Report(ctx, summary); err != nil {
			logging.ErrorWithContext(logger, "report file not updated", "report_write_failed",
				logging.Error(err),
				logging.Hint("check report.csv_path permissions"),
				logging.Impact("CSV row missing for this library"),
			)
		}
	}
	return summary, true
}
