package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"plexorcist/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	t.Setenv("PLEX_TOKEN", "env-token")
	t.Setenv("PLEXORCIST_LIBRARIES", "Movies, 2")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Plex.Token != "env-token" {
		t.Fatalf("expected token from env, got %q", cfg.Plex.Token)
	}
	if got := strings.Join(cfg.Plex.Libraries, "|"); got != "Movies|2" {
		t.Fatalf("unexpected libraries: %q", got)
	}
	wantLogDir := filepath.Join(tempHome, ".local", "share", "plexorcist", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.BaseURL() != "http://127.0.0.1:32400" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
	if cfg.Cleanup.OlderThan != "0" {
		t.Fatalf("expected retention disabled by default, got %q", cfg.Cleanup.OlderThan)
	}
	if cfg.Messages != config.DefaultMessages() {
		t.Fatalf("expected default messages, got %#v", cfg.Messages)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.DataDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("PLEXORCIST_LIBRARIES", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "plexorcist.toml")

	type payload struct {
		Plex struct {
			Host      string   `toml:"host"`
			Port      int      `toml:"port"`
			Token     string   `toml:"token"`
			Libraries []string `toml:"libraries"`
		} `toml:"plex"`
		Cleanup struct {
			OlderThan string   `toml:"older_than"`
			Whitelist []string `toml:"whitelist"`
		} `toml:"cleanup"`
		Messages struct {
			Removed string `toml:"removed"`
		} `toml:"i18n"`
	}
	custom := payload{}
	custom.Plex.Host = "https://plex.example.com/"
	custom.Plex.Port = 0
	custom.Plex.Token = "abc123"
	custom.Plex.Libraries = []string{"Cinema", " Series "}
	custom.Cleanup.OlderThan = "2d 4h"
	custom.Cleanup.Whitelist = []string{"Bluey", " The Office, US "}
	custom.Messages.Removed = "{0} Videos entfernt, {1} GB frei!"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.BaseURL() != "https://plex.example.com" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
	if got := strings.Join(cfg.Plex.Libraries, "|"); got != "Cinema|Series" {
		t.Fatalf("unexpected libraries: %q", got)
	}
	if got := strings.Join(cfg.Cleanup.Whitelist, "|"); got != "Bluey|The Office, US" {
		t.Fatalf("whitelist entries must keep inner commas, got %q", got)
	}
	if cfg.Cleanup.OlderThan != "2d 4h" {
		t.Fatalf("unexpected older_than: %q", cfg.Cleanup.OlderThan)
	}
	if cfg.Messages.Removed != "{0} Videos entfernt, {1} GB frei!" {
		t.Fatalf("expected localized removed message, got %q", cfg.Messages.Removed)
	}
	if cfg.Messages.NoVideos != config.DefaultMessages().NoVideos {
		t.Fatalf("expected missing messages to fall back to defaults, got %q", cfg.Messages.NoVideos)
	}
}

func TestBaseURLAppliesPort(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{host: "http://10.0.0.5", port: 32400, want: "http://10.0.0.5:32400"},
		{host: "http://10.0.0.5:8080", port: 32400, want: "http://10.0.0.5:8080"},
		{host: "https://plex.example.com", port: 0, want: "https://plex.example.com"},
		{host: "http://nas.local/", port: 32400, want: "http://nas.local:32400"},
	}
	for _, tc := range tests {
		cfg := config.Default()
		cfg.Plex.Host = tc.host
		cfg.Plex.Port = tc.port
		if got := cfg.BaseURL(); got != tc.want {
			t.Fatalf("BaseURL(%q, %d) = %q, want %q", tc.host, tc.port, got, tc.want)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_plex_token_here") {
		t.Fatalf("sample config missing placeholder token: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Plex.Port != 32400 {
		t.Fatalf("expected sample port 32400, got %d", cfg.Plex.Port)
	}
	if cfg.Messages.Removed == "" {
		t.Fatal("expected sample to carry message templates")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.Plex.Token = "token"
		cfg.Plex.Libraries = []string{"Movies"}
		return cfg
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg := valid()
	cfg.Plex.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing token")
	}

	cfg = valid()
	cfg.Plex.Host = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for host without scheme")
	}

	cfg = valid()
	cfg.Plex.Libraries = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing libraries")
	}

	cfg = valid()
	cfg.Plex.RequestTimeout = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}

	for _, window := range []string{"3 fortnights", "20000w", "15000w 15000w"} {
		cfg = valid()
		cfg.Cleanup.OlderThan = window
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for older_than %q", window)
		}
	}

	cfg = valid()
	cfg.Cleanup.OlderThan = "1w 2d 3h"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid older_than, got %v", err)
	}

	cfg = valid()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("PLEXORCIST_LIBRARIES", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.Default()
	cfg.Plex.Token = "saved-token"
	cfg.Plex.Libraries = []string{"Movies", "3"}
	cfg.Cleanup.Whitelist = []string{"Bluey"}

	if err := config.Save(path, &cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat saved config: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load saved config: %v", err)
	}
	if !exists {
		t.Fatal("expected saved config to exist")
	}
	if loaded.Plex.Token != "saved-token" {
		t.Fatalf("unexpected token: %q", loaded.Plex.Token)
	}
	if strings.Join(loaded.Plex.Libraries, ",") != "Movies,3" {
		t.Fatalf("unexpected libraries: %v", loaded.Plex.Libraries)
	}
}

func TestPromptUpdatesAnsweredFields(t *testing.T) {
	t.Setenv("PLEXORCIST_LIBRARIES", "")
	cfg := config.Default()
	cfg.Plex.Token = "old-token"
	cfg.Plex.Libraries = []string{"Movies"}
	cfg.Notifications.NtfyTopic = "https://ntfy.sh/old"

	answers := strings.Join([]string{
		"",                                  // host: keep
		"32401",                             // port
		"",                                  // token: keep
		"Movies, TV Shows",                  // libraries
		"7d",                                // older_than
		"Bluey,Friends",                     // whitelist
		"https://maker.ifttt.com/trigger/x", // ifttt
		"-",                                 // ntfy: clear
		"",                                  // pushbullet: keep
		"",                                  // csv: keep
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := config.Prompt(strings.NewReader(answers), &out, &cfg); err != nil {
		t.Fatalf("Prompt returned error: %v", err)
	}

	if cfg.Plex.Port != 32401 {
		t.Fatalf("expected port update, got %d", cfg.Plex.Port)
	}
	if cfg.Plex.Token != "old-token" {
		t.Fatalf("expected token to be kept, got %q", cfg.Plex.Token)
	}
	if strings.Join(cfg.Plex.Libraries, "|") != "Movies|TV Shows" {
		t.Fatalf("unexpected libraries: %v", cfg.Plex.Libraries)
	}
	if cfg.Cleanup.OlderThan != "7d" {
		t.Fatalf("unexpected older_than: %q", cfg.Cleanup.OlderThan)
	}
	if strings.Join(cfg.Cleanup.Whitelist, "|") != "Bluey|Friends" {
		t.Fatalf("unexpected whitelist: %v", cfg.Cleanup.Whitelist)
	}
	if cfg.Notifications.IFTTTWebhook != "https://maker.ifttt.com/trigger/x" {
		t.Fatalf("unexpected webhook: %q", cfg.Notifications.IFTTTWebhook)
	}
	if cfg.Notifications.NtfyTopic != "" {
		t.Fatalf("expected ntfy topic cleared, got %q", cfg.Notifications.NtfyTopic)
	}
	if strings.Contains(out.String(), "old-token") {
		t.Fatalf("token must be masked in prompt output: %q", out.String())
	}
	if !strings.Contains(out.String(), "*****oken") {
		t.Fatalf("expected masked token hint in output: %q", out.String())
	}
}

func TestPromptStopsAtEOF(t *testing.T) {
	cfg := config.Default()
	cfg.Plex.Host = "http://nas.local"

	var out bytes.Buffer
	if err := config.Prompt(strings.NewReader("http://other.local\n"), &out, &cfg); err != nil {
		t.Fatalf("Prompt returned error: %v", err)
	}
	if cfg.Plex.Host != "http://other.local" {
		t.Fatalf("expected host update, got %q", cfg.Plex.Host)
	}
	if cfg.Plex.Port != config.Default().Plex.Port {
		t.Fatalf("expected remaining fields untouched, got port %d", cfg.Plex.Port)
	}
}
