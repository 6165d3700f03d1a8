package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"plexorcist/internal/cleanup"
	"plexorcist/internal/config"
	"plexorcist/internal/logging"
	"plexorcist/internal/notifications"
	"plexorcist/internal/report"
)

type fakeNotifier struct {
	messages []notifications.Message
}

func (f *fakeNotifier) Dispatch(_ context.Context, msg notifications.Message) int {
	f.messages = append(f.messages, msg)
	return 1
}

func newReporter(t *testing.T, csvPath string, notifier report.Notifier) (*report.Reporter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := config.Default()
	cfg.Report.CSVPath = csvPath
	clock := func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local) }
	return report.NewReporter(&cfg, notifier, logger, report.WithClock(clock)), &buf
}

func TestReportLogsWritesCSVAndNotifies(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "reports", "plexorcist.csv")
	notifier := &fakeNotifier{}
	reporter, buf := newReporter(t, csvPath, notifier)

	summary := cleanup.Summary{Count: 2, ReclaimedGB: 1.5, Titles: []string{"Show - A", "Show - B"}}
	if err := reporter.Report(context.Background(), summary); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if err := reporter.Report(context.Background(), cleanup.Summary{Count: 1, ReclaimedGB: 0.49, Titles: []string{"Movie"}}); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	out := buf.String()
	for _, fragment := range []string{"2 watched videos were removed, reclaiming 1.5 GB!", "Show - A", "Show - B"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in log output %q", fragment, out)
		}
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := [][]string{
		{"Timestamp", "Number of Shows Deleted", "GB of Space Reclaimed"},
		{"2024-03-01 09:30:00", "2", "1.5"},
		{"2024-03-01 09:30:00", "1", "0.49"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected csv rows: %v", rows)
	}

	if len(notifier.messages) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.messages))
	}
	wantBody := "2 watched videos were removed, reclaiming 1.5 GB!\nShow - A\nShow - B"
	if notifier.messages[0].Body != wantBody {
		t.Fatalf("unexpected notification body %q", notifier.messages[0].Body)
	}
}

func TestReportNothingRemoved(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "report.csv")
	notifier := &fakeNotifier{}
	reporter, buf := newReporter(t, csvPath, notifier)

	if err := reporter.Report(context.Background(), cleanup.Summary{}); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "No videos to delete!") {
		t.Fatalf("expected no_videos message, got %q", buf.String())
	}
	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Fatalf("expected no csv file, got %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.messages))
	}
}

func TestReportDryRunOnlyLogs(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "report.csv")
	notifier := &fakeNotifier{}
	reporter, buf := newReporter(t, csvPath, notifier)

	summary := cleanup.Summary{Count: 1, ReclaimedGB: 0.1, Titles: []string{"Movie"}, DryRun: true}
	if err := reporter.Report(context.Background(), summary); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "[dry run]") {
		t.Fatalf("expected dry run marker, got %q", buf.String())
	}
	if _, err := os.Stat(csvPath); !os.IsNotExist(err) {
		t.Fatalf("expected no csv file in dry run, got %v", err)
	}
	if len(notifier.messages) != 0 {
		t.Fatal("expected no notifications in dry run")
	}
}

func TestReportCSVFailureStillNotifies(t *testing.T) {
	dir := t.TempDir()
	notifier := &fakeNotifier{}
	reporter, _ := newReporter(t, dir, notifier)

	err := reporter.Report(context.Background(), cleanup.Summary{Count: 1, Titles: []string{"x"}})
	if err == nil {
		t.Fatal("expected error when csv path is a directory")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected notification despite csv failure, got %d", len(notifier.messages))
	}
}
