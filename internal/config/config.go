package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Plex contains the media server coordinates and library selection.
type Plex struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	Token          string   `toml:"token"`
	Libraries      []string `toml:"libraries"`
	RequestTimeout int      `toml:"request_timeout"`
}

// Cleanup contains the retention window and deletion exemptions.
type Cleanup struct {
	// OlderThan is a duration such as "1d 2h 30m"; "0" disables age gating.
	OlderThan string `toml:"older_than"`
	// Whitelist holds exact, case-sensitive series or item titles.
	Whitelist []string `toml:"whitelist"`
	// WhitelistPatterns holds wildcard patterns ("The Office*") matched
	// independently of the exact whitelist.
	WhitelistPatterns []string `toml:"whitelist_patterns"`
	// StrictAccounting only counts deletions the server confirmed.
	StrictAccounting bool `toml:"strict_accounting"`
}

// Notifications contains the push channels used after a run.
type Notifications struct {
	IFTTTWebhook     string `toml:"ifttt_webhook"`
	NtfyTopic        string `toml:"ntfy_topic"`
	PushbulletAPIKey string `toml:"pushbullet_api_key"`
	PushbulletURL    string `toml:"pushbullet_url"`
	RequestTimeout   int    `toml:"request_timeout"`
}

// Report contains configuration for the CSV run report.
type Report struct {
	CSVPath string `toml:"csv_path"`
}

// Paths contains directory configuration.
type Paths struct {
	LogDir  string `toml:"log_dir"`
	DataDir string `toml:"data_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Messages holds the localized templates used in logs and notifications.
// Templates use positional placeholders: {0}, {1}.
type Messages struct {
	Whitelisted  string `toml:"whitelisted"`
	Removed      string `toml:"removed"`
	NoVideos     string `toml:"no_videos"`
	Notification string `toml:"notification"`
	IFTTTError   string `toml:"ifttt_error"`
}

// Config encapsulates all configuration values for Plexorcist.
//
// Configuration sections by subsystem:
//   - Plex: server address, token, and library selectors
//   - Cleanup: retention window, whitelist, and accounting mode
//   - Notifications: IFTTT, ntfy, and Pushbullet channels
//   - Report: CSV report destination
//   - Paths: log and data directories
//   - Logging: log format, level, and rotation
//   - Messages: localized message templates
type Config struct {
	Plex          Plex          `toml:"plex"`
	Cleanup       Cleanup       `toml:"cleanup"`
	Notifications Notifications `toml:"notifications"`
	Report        Report        `toml:"report"`
	Paths         Paths         `toml:"paths"`
	Logging       Logging       `toml:"logging"`
	Messages      Messages      `toml:"i18n"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := Read(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

// Read locates, parses, and normalizes a configuration file without
// validating it. The interactive updater uses it so an incomplete file can
// be repaired.
func Read(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// Save writes the configuration to path as TOML, creating parent
// directories as needed. The file is written with restricted permissions
// because it carries the Plex token.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("save config: nil config")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("plexorcist.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and data directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.DataDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Report.CSVPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.Report.CSVPath), 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	return nil
}

// BaseURL returns the Plex server address with the configured port applied.
// A port of zero keeps whatever the host string carries.
func (c *Config) BaseURL() string {
	host := strings.TrimRight(strings.TrimSpace(c.Plex.Host), "/")
	if host == "" || c.Plex.Port <= 0 {
		return host
	}
	parsed, err := url.Parse(host)
	if err != nil || parsed.Host == "" {
		return host
	}
	if parsed.Port() != "" {
		return host
	}
	parsed.Host = parsed.Host + ":" + strconv.Itoa(c.Plex.Port)
	return strings.TrimRight(parsed.String(), "/")
}

// LogFilePath returns the rotating log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, logFileName)
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, historyFileName)
}

// LockPath returns the single-run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, lockFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SplitList splits comma separated values, trimming blanks. Entries that
// already arrive as separate list items are split as well so
// `libraries = ["Movies, TV Shows"]` behaves like two selectors.
func SplitList(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
