// Package report turns a cleanup summary into log lines, a CSV row and a
// push notification.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"plexorcist/internal/cleanup"
	"plexorcist/internal/config"
	"plexorcist/internal/logging"
	"plexorcist/internal/notifications"
	"plexorcist/internal/textutil"
)

// CSVHeader is written once, when the report file is created.
var CSVHeader = []string{"Timestamp", "Number of Shows Deleted", "GB of Space Reclaimed"}

// Notifier delivers a message to the configured channels.
type Notifier interface {
	Dispatch(ctx context.Context, msg notifications.Message) int
}

// Reporter publishes cleanup summaries.
type Reporter struct {
	messages config.Messages
	csvPath  string
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes the reporter.
type Option func(*Reporter)

// WithClock overrides the timestamp source used for CSV rows.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReporter builds a reporter from the message templates and CSV path in
// cfg. A nil notifier disables push notifications.
func NewReporter(cfg *config.Config, notifier Notifier, logger *slog.Logger, opts ...Option) *Reporter {
	r := &Reporter{
		messages: config.DefaultMessages(),
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "report"),
		now:      time.Now,
	}
	if cfg != nil {
		r.messages = cfg.Messages
		r.csvPath = cfg.Report.CSVPath
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report logs the summary, appends a CSV row and sends notifications.
// Nothing is written or sent when the summary is empty or a dry run. The
// returned error only concerns the CSV file; notifications never fail the
// report.
func (r *Reporter) Report(ctx context.Context, summary cleanup.Summary) error {
	logger := logging.WithContext(ctx, r.logger)
	if summary.Count == 0 {
		logger.Info(r.messages.NoVideos)
		return nil
	}

	headline := r.Headline(summary)
	if summary.DryRun {
		headline = "[dry run] " + headline
	}
	logger.Info(headline,
		logging.Int("count", summary.Count),
		logging.ReclaimedGB(summary.ReclaimedGB),
		logging.Int("failed", summary.Failed),
	)
	for _, title := range summary.Titles {
		logger.Info(title)
	}
	if summary.DryRun {
		return nil
	}

	var csvErr error
	if r.csvPath != "" {
		if csvErr = AppendCSV(r.csvPath, r.now(), summary.Count, summary.ReclaimedGB); csvErr == nil {
			logger.Info("report file updated", logging.String("path", r.csvPath))
		}
	}

	if r.notifier != nil {
		r.notifier.Dispatch(ctx, r.Message(summary))
	}
	return csvErr
}

// Headline renders the localized "removed" message for summary.
func (r *Reporter) Headline(summary cleanup.Summary) string {
	return textutil.FormatMessage(r.messages.Removed, summary.Count, summary.ReclaimedGB)
}

// Message builds the notification: the headline followed by one title per
// line.
func (r *Reporter) Message(summary cleanup.Summary) notifications.Message {
	body := r.Headline(summary) + "\n" + strings.Join(summary.Titles, "\n")
	return notifications.Message{
		Title: "Plexorcist",
		Body:  body,
		Tags:  []string{"plexorcist", "cleanup"},
	}
}

// AppendCSV appends one row to the report at path, writing the header first
// when the file does not exist yet.
func AppendCSV(path string, at time.Time, count int, reclaimedGB float64) error {
	_, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if !exists {
		if err := writer.Write(CSVHeader); err != nil {
			return fmt.Errorf("write report header: %w", err)
		}
	}
	row := []string{
		at.Format(logging.TimestampLayout),
		strconv.Itoa(count),
		strconv.FormatFloat(reclaimedGB, 'f', -1, 64),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("write report row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
