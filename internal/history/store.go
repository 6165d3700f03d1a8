package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"plexorcist/internal/cleanup"
	"plexorcist/internal/config"
	"plexorcist/internal/services"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "database path is empty", nil)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// BeginRun inserts a run in the running state.
func (s *Store) BeginRun(ctx context.Context, id string, startedAt time.Time, dryRun bool) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("run id is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, dry_run, status) VALUES (?, ?, ?, ?)`,
		id,
		formatTime(startedAt),
		boolToInt(dryRun),
		StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordLibrary stores every outcome of one library summary and adds the
// summary's counters to the run.
func (s *Store) RecordLibrary(ctx context.Context, runID string, summary cleanup.Summary, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	timestamp := formatTime(at)
	for _, outcome := range summary.Outcomes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deletions (
                run_id, library_id, media_type, item_key, title, size_mb, confirmed, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			summary.LibraryID,
			nullableString(summary.MediaType),
			outcome.Key,
			outcome.Title,
			outcome.MB,
			boolToInt(outcome.Confirmed),
			timestamp,
		); err != nil {
			return fmt.Errorf("insert deletion: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET
            libraries = libraries + 1,
            deleted = deleted + ?,
            skipped = skipped + ?,
            failed = failed + ?,
            reclaimed_gb = ROUND(reclaimed_gb + ?, 2)
        WHERE id = ?`,
		summary.Count,
		len(summary.Skipped),
		summary.Failed,
		summary.ReclaimedGB,
		runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return services.Wrap(services.ErrNotFound, "history", "record library", fmt.Sprintf("run %s not found", runID), nil)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit library: %w", err)
	}
	return nil
}

// FinishRun marks the run completed, or failed when runErr is non-nil.
func (s *Store) FinishRun(ctx context.Context, runID string, finishedAt time.Time, runErr error) error {
	status := StatusCompleted
	var message any
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, error_message = ? WHERE id = ?`,
		formatTime(finishedAt),
		status,
		message,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return services.Wrap(services.ErrNotFound, "history", "finish run", fmt.Sprintf("run %s not found", runID), nil)
	}
	return nil
}

// GetRun fetches one run. A missing run returns nil without error.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns up to limit runs, newest first. A limit <= 0 returns
// every run.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Deletions lists the items processed by a run in insertion order.
func (s *Store) Deletions(ctx context.Context, runID string) ([]Deletion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, library_id, media_type, item_key, title, size_mb, confirmed, created_at
        FROM deletions WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query deletions: %w", err)
	}
	defer rows.Close()

	var deletions []Deletion
	for rows.Next() {
		var (
			d         Deletion
			mediaType sql.NullString
			confirmed int
			created   string
		)
		if err := rows.Scan(&d.RunID, &d.LibraryID, &mediaType, &d.Key, &d.Title, &d.SizeMB, &confirmed, &created); err != nil {
			return nil, fmt.Errorf("scan deletion: %w", err)
		}
		d.MediaType = mediaType.String
		d.Confirmed = confirmed != 0
		d.CreatedAt = parseTime(created)
		deletions = append(deletions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deletions: %w", err)
	}
	return deletions, nil
}

// Totals sums completed runs that actually deleted media.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var totals Totals
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(deleted), 0), COALESCE(SUM(reclaimed_gb), 0)
        FROM runs WHERE status = ? AND dry_run = 0`,
		StatusCompleted,
	)
	if err := row.Scan(&totals.Runs, &totals.Deleted, &totals.ReclaimedGB); err != nil {
		return Totals{}, fmt.Errorf("scan totals: %w", err)
	}
	totals.ReclaimedGB = cleanup.Round2(totals.ReclaimedGB)
	return totals, nil
}

// CheckHealth returns diagnostic information about the history database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("history database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat history database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("history database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping history database: %w", err)
	}
	health.DatabaseReadable = true

	var result string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&result); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = result == "ok"
	if !health.IntegrityCheck {
		health.Error = result
	}
	return health, nil
}

const runColumns = `id, started_at, finished_at, dry_run, libraries, deleted, skipped, failed, reclaimed_gb, status, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		started  string
		finished sql.NullString
		dryRun   int
		status   string
		errMsg   sql.NullString
	)
	if err := row.Scan(
		&run.ID,
		&started,
		&finished,
		&dryRun,
		&run.Libraries,
		&run.Deleted,
		&run.Skipped,
		&run.Failed,
		&run.ReclaimedGB,
		&status,
		&errMsg,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	run.DryRun = dryRun != 0
	run.Status = Status(status)
	run.Error = errMsg.String
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
