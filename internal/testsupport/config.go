package testsupport

import (
	"path/filepath"
	"testing"

	"plexorcist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The Plex address points nowhere until WithPlexURL is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Plex.Host = "http://127.0.0.1"
	cfgVal.Plex.Port = 0
	cfgVal.Plex.Token = "test-token"
	cfgVal.Plex.Libraries = []string{"1"}
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Notifications.PushbulletURL = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPlexURL points the config at a (fake) Plex server. The port stays zero
// so the URL is used as-is.
func WithPlexURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Plex.Host = url
		b.cfg.Plex.Port = 0
	}
}

// WithLibraries replaces the library selectors.
func WithLibraries(selectors ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Plex.Libraries = append([]string(nil), selectors...)
	}
}

// WithWhitelist sets the exact-match whitelist.
func WithWhitelist(titles ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cleanup.Whitelist = append([]string(nil), titles...)
	}
}

// WithOlderThan sets the retention window.
func WithOlderThan(value string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cleanup.OlderThan = value
	}
}

// WithCSVReport enables the CSV report inside the test's temp directory.
func WithCSVReport() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.CSVPath = filepath.Join(b.baseDir, "report", "plexorcist.csv")
	}
}

// WithNtfyTopic enables the ntfy channel.
func WithNtfyTopic(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = url
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
