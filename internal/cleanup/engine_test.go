package cleanup_test

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"plexorcist/internal/cleanup"
	"plexorcist/internal/config"
	"plexorcist/internal/logging"
	"plexorcist/internal/services/plex"
)

type recordingDeleter struct {
	keys []string
	fail map[string]bool
}

func (d *recordingDeleter) DeleteItem(_ context.Context, key string) bool {
	d.keys = append(d.keys, key)
	return !d.fail[key]
}

func watched(key, parent, title string, size int64) plex.Entry {
	count := 1
	return plex.Entry{Key: key, ParentTitle: parent, Title: title, ViewCount: &count, SizeBytes: size}
}

func newBufferLogger(t *testing.T) (*bytes.Buffer, *logging.Options) {
	t.Helper()
	var buf bytes.Buffer
	return &buf, &logging.Options{Format: "console", Level: "info", Console: &buf}
}

func TestProcessEndToEnd(t *testing.T) {
	buf, opts := newBufferLogger(t)
	logger, err := logging.New(*opts)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	deleter := &recordingDeleter{}
	engine := cleanup.NewEngine(deleter, cleanup.NewWhitelist([]string{"Keep Me"}, nil),
		cleanup.Options{Messages: config.DefaultMessages()}, logger)

	entries := []plex.Entry{
		watched("/library/metadata/1", "", "Delete Me", 500*1024*1024),
		watched("/library/metadata/2", "", "Keep Me", 800*1024*1024),
	}
	summary := engine.Process(context.Background(), entries, "movie")

	if summary.Count != 1 {
		t.Fatalf("expected 1 deletion, got %d", summary.Count)
	}
	if summary.ReclaimedGB != 0.49 {
		t.Fatalf("expected 0.49 GB, got %v", summary.ReclaimedGB)
	}
	if !reflect.DeepEqual(summary.Titles, []string{"Delete Me"}) {
		t.Fatalf("unexpected titles: %v", summary.Titles)
	}
	if !reflect.DeepEqual(summary.Skipped, []string{"Keep Me"}) {
		t.Fatalf("unexpected skipped: %v", summary.Skipped)
	}
	if !reflect.DeepEqual(deleter.keys, []string{"/library/metadata/1"}) {
		t.Fatalf("unexpected delete calls: %v", deleter.keys)
	}
	if len(summary.Outcomes) != 1 || summary.Outcomes[0].MB != 500 || !summary.Outcomes[0].Confirmed {
		t.Fatalf("unexpected outcomes: %+v", summary.Outcomes)
	}
	if !strings.Contains(buf.String(), "Keep Me is whitelisted!") {
		t.Fatalf("expected whitelisted log line, got %q", buf.String())
	}
}

func TestProcessSeriesTitles(t *testing.T) {
	deleter := &recordingDeleter{}
	engine := cleanup.NewEngine(deleter, cleanup.NewWhitelist([]string{"Bluey"}, nil), cleanup.Options{}, logging.NewNop())

	entries := []plex.Entry{
		watched("/a", "The Office", "Pilot", 0),
		watched("/b", "Bluey", "Keepy Uppy", 0),
		watched("/c", "Friends", "The One Where", 0),
	}
	summary := engine.Process(context.Background(), entries, "episode")

	want := []string{"The Office - Pilot", "Friends - The One Where"}
	if !reflect.DeepEqual(summary.Titles, want) {
		t.Fatalf("unexpected titles: %v", summary.Titles)
	}
	if !reflect.DeepEqual(summary.Skipped, []string{"Bluey - Keepy Uppy"}) {
		t.Fatalf("expected series whitelist by parent title, got %v", summary.Skipped)
	}
}

func TestProcessWhitelistIsExactAndCaseSensitive(t *testing.T) {
	deleter := &recordingDeleter{}
	engine := cleanup.NewEngine(deleter, cleanup.NewWhitelist([]string{"The Office"}, nil), cleanup.Options{}, logging.NewNop())

	entries := []plex.Entry{
		watched("/a", "the office", "Pilot", 0),
		watched("/b", "The Office (US)", "Pilot", 0),
		watched("/c", "The Office", "Pilot", 0),
	}
	summary := engine.Process(context.Background(), entries, "show")
	if summary.Count != 2 || len(summary.Skipped) != 1 {
		t.Fatalf("expected only the exact match skipped, got count=%d skipped=%v", summary.Count, summary.Skipped)
	}
}

func TestProcessWhitelistPatterns(t *testing.T) {
	deleter := &recordingDeleter{}
	engine := cleanup.NewEngine(deleter, cleanup.NewWhitelist(nil, []string{"The Office*", "*Episode V"}), cleanup.Options{}, logging.NewNop())

	entries := []plex.Entry{
		watched("/a", "The Office (US)", "Pilot", 0),
		watched("/b", "", "Star Wars: Episode V", 0),
		watched("/c", "", "Star Wars: Episode VI", 0),
	}
	summary := engine.Process(context.Background(), entries, "movie")
	if !reflect.DeepEqual(summary.Titles, []string{"Star Wars: Episode VI"}) {
		t.Fatalf("unexpected titles: %v", summary.Titles)
	}
}

func TestProcessFailedDeletion(t *testing.T) {
	tests := []struct {
		name      string
		strict    bool
		wantCount int
		wantGB    float64
	}{
		{name: "counted by default", strict: false, wantCount: 2, wantGB: 2},
		{name: "strict accounting", strict: true, wantCount: 1, wantGB: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deleter := &recordingDeleter{fail: map[string]bool{"/b": true}}
			engine := cleanup.NewEngine(deleter, cleanup.Whitelist{}, cleanup.Options{StrictAccounting: tc.strict}, logging.NewNop())
			entries := []plex.Entry{
				watched("/a", "", "A", 1<<30),
				watched("/b", "", "B", 1<<30),
			}
			summary := engine.Process(context.Background(), entries, "movie")
			if len(deleter.keys) != 2 {
				t.Fatalf("expected both deletes attempted, got %v", deleter.keys)
			}
			if summary.Count != tc.wantCount || summary.ReclaimedGB != tc.wantGB {
				t.Fatalf("got count=%d gb=%v", summary.Count, summary.ReclaimedGB)
			}
			if summary.Failed != 1 {
				t.Fatalf("expected one failure, got %d", summary.Failed)
			}
			if summary.Outcomes[1].Confirmed {
				t.Fatal("expected failed outcome to be unconfirmed")
			}
		})
	}
}

func TestProcessDryRunSkipsDeletes(t *testing.T) {
	deleter := &recordingDeleter{}
	engine := cleanup.NewEngine(deleter, cleanup.Whitelist{}, cleanup.Options{DryRun: true}, logging.NewNop())
	summary := engine.Process(context.Background(), []plex.Entry{watched("/a", "", "A", 1<<20)}, "movie")
	if len(deleter.keys) != 0 {
		t.Fatalf("expected no delete calls, got %v", deleter.keys)
	}
	if !summary.DryRun || summary.Count != 1 {
		t.Fatalf("unexpected dry run summary: %+v", summary)
	}
}

func TestProcessStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	deleter := &recordingDeleter{}
	engine := cleanup.NewEngine(deleter, cleanup.Whitelist{}, cleanup.Options{}, logging.NewNop())
	summary := engine.Process(ctx, []plex.Entry{watched("/a", "", "A", 1)}, "movie")
	if summary.Count != 0 || len(deleter.keys) != 0 {
		t.Fatalf("expected nothing processed, got %+v", summary)
	}
}

func TestRounding(t *testing.T) {
	if got := cleanup.BytesToMB(1 << 30); got != 1024.0 {
		t.Fatalf("1 GiB = %v MB, want 1024", got)
	}
	if got := cleanup.Round2(1024.0 / 1024); got != 1.0 {
		t.Fatalf("1024 MB = %v GB, want 1", got)
	}
	if got := cleanup.BytesToMB(1536); got != 0 {
		t.Fatalf("1536 bytes = %v MB, want 0", got)
	}
	if got := cleanup.BytesToMB(5 * 1024 * 1024 / 2); got != 2.5 {
		t.Fatalf("2.5 MiB = %v MB", got)
	}
}

func TestDisplayTitle(t *testing.T) {
	entry := plex.Entry{ParentTitle: "Show", Title: "Episode"}
	if got := cleanup.DisplayTitle(entry, true); got != "Show - Episode" {
		t.Fatalf("unexpected series title %q", got)
	}
	if got := cleanup.DisplayTitle(entry, false); got != "Episode" {
		t.Fatalf("unexpected movie title %q", got)
	}
	if !cleanup.IsSeries("show") || !cleanup.IsSeries("episode") || cleanup.IsSeries("movie") {
		t.Fatal("unexpected series classification")
	}
}
