package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"plexorcist/internal/textutil"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	parsed, err := url.Parse(c.Plex.Host)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("plex.host must be an absolute URL such as http://127.0.0.1, got %q", c.Plex.Host)
	}
	if c.Plex.Port < 0 || c.Plex.Port > 65535 {
		return fmt.Errorf("plex.port must be between 0 and 65535, got %d", c.Plex.Port)
	}
	if c.Plex.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("plex.token is required. Set PLEX_TOKEN env var or edit %s (update with 'plexorcist --config')", defaultPath)
	}
	if len(c.Plex.Libraries) == 0 {
		return errors.New("plex.libraries must include at least one library name or id")
	}
	return nil
}

func (c *Config) validateCleanup() error {
	if _, err := textutil.ParseSpan(c.Cleanup.OlderThan); err != nil {
		return fmt.Errorf("cleanup.older_than: %w", err)
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"plex.request_timeout":          c.Plex.RequestTimeout,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateLogging() error {
	if c.Logging.MaxSizeMB <= 0 {
		return errors.New("logging.max_size_mb must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
