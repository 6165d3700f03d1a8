package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"plexorcist/internal/config"
	"plexorcist/internal/logging"
	"plexorcist/internal/notifications"
	"plexorcist/internal/services/httpapi"
	"plexorcist/internal/services/plex"
)

const productName = "Plexorcist"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger writes to out and the rotating log file.
func newLogger(cfg *config.Config, out io.Writer) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg, out)
}

func newPlexClient(cfg *config.Config, logger *slog.Logger) *plex.Client {
	requester := httpapi.New(logger, httpapi.WithTimeout(time.Duration(cfg.Plex.RequestTimeout)*time.Second))
	return plex.NewClient(cfg.BaseURL(), cfg.Plex.Token, requester, logger, plex.WithProduct(productName, version))
}

func newDispatcher(cfg *config.Config, logger *slog.Logger) *notifications.Dispatcher {
	requester := httpapi.New(logger,
		httpapi.WithTimeout(time.Duration(cfg.Notifications.RequestTimeout)*time.Second),
		httpapi.WithHeader("User-Agent", productName+"/"+version),
	)
	return notifications.NewDispatcher(cfg, requester, logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
