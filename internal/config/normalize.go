package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizePlex()
	c.normalizeCleanup()
	c.normalizeNotifications()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeMessages()
	return nil
}

func (c *Config) normalizePlex() {
	c.Plex.Host = strings.TrimRight(strings.TrimSpace(c.Plex.Host), "/")
	if c.Plex.Host == "" {
		c.Plex.Host = defaultPlexHost
	}
	if c.Plex.Token == "" {
		if value, ok := os.LookupEnv("PLEX_TOKEN"); ok {
			c.Plex.Token = value
		}
	}
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if value, ok := os.LookupEnv("PLEXORCIST_LIBRARIES"); ok && strings.TrimSpace(value) != "" {
		c.Plex.Libraries = []string{value}
	}
	c.Plex.Libraries = SplitList(c.Plex.Libraries...)
	if c.Plex.RequestTimeout == 0 {
		c.Plex.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeCleanup() {
	c.Cleanup.OlderThan = strings.TrimSpace(c.Cleanup.OlderThan)
	if c.Cleanup.OlderThan == "" {
		c.Cleanup.OlderThan = defaultOlderThan
	}
	// Whitelist entries are matched exactly, so only surrounding blanks
	// are removed; commas inside a title are preserved.
	c.Cleanup.Whitelist = trimList(c.Cleanup.Whitelist)
	c.Cleanup.WhitelistPatterns = trimList(c.Cleanup.WhitelistPatterns)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.IFTTTWebhook = strings.TrimSpace(c.Notifications.IFTTTWebhook)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.PushbulletAPIKey == "" {
		if value, ok := os.LookupEnv("PUSHBULLET_API_KEY"); ok {
			c.Notifications.PushbulletAPIKey = value
		}
	}
	c.Notifications.PushbulletAPIKey = strings.TrimSpace(c.Notifications.PushbulletAPIKey)
	c.Notifications.PushbulletURL = strings.TrimSpace(c.Notifications.PushbulletURL)
	if c.Notifications.PushbulletURL == "" {
		c.Notifications.PushbulletURL = defaultPushbulletURL
	}
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	c.Report.CSVPath = strings.TrimSpace(c.Report.CSVPath)
	if c.Report.CSVPath, err = expandPath(c.Report.CSVPath); err != nil {
		return fmt.Errorf("report.csv_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}

func (c *Config) normalizeMessages() {
	defaults := DefaultMessages()
	fill := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}
	fill(&c.Messages.Whitelisted, defaults.Whitelisted)
	fill(&c.Messages.Removed, defaults.Removed)
	fill(&c.Messages.NoVideos, defaults.NoVideos)
	fill(&c.Messages.Notification, defaults.Notification)
	fill(&c.Messages.IFTTTError, defaults.IFTTTError)
}

func trimList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
