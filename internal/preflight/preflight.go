package preflight

import (
	"context"

	"plexorcist/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. probe is the
// Plex client; a nil probe skips the server checks.
func RunAll(ctx context.Context, cfg *config.Config, probe PlexProbe) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckRetention(cfg.Cleanup.OlderThan),
	}

	if probe != nil {
		server := CheckPlex(ctx, cfg.BaseURL(), probe)
		results = append(results, server)
		// Library resolution needs a reachable server.
		if server.Passed {
			results = append(results, CheckLibraries(ctx, probe, cfg.Plex.Libraries))
		}
	}

	results = append(results, CheckNotifications(cfg)...)
	results = append(results, CheckHistory(ctx, cfg))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
