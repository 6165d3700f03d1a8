package preflight

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"plexorcist/internal/config"
	"plexorcist/internal/history"
	"plexorcist/internal/library"
	"plexorcist/internal/notifications"
	"plexorcist/internal/retention"
	"plexorcist/internal/services/httpapi"
	"plexorcist/internal/services/plex"
)

// PlexProbe is the read-only part of the Plex client used by the checks.
type PlexProbe interface {
	Identity(ctx context.Context) (plex.Identity, bool)
	ListSections(ctx context.Context) ([]plex.Section, bool)
}

// CheckPlex verifies the server answers and accepts the token. /identity
// needs no token, so a reachable server with a failing section list points
// at a bad token.
func CheckPlex(ctx context.Context, baseURL string, probe PlexProbe) Result {
	const name = "Plex server"

	if strings.TrimSpace(baseURL) == "" {
		return Result{Name: name, Detail: "missing host"}
	}
	identity, ok := probe.Identity(ctx)
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (unreachable)", baseURL)}
	}
	sections, ok := probe.ListSections(ctx)
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (reachable, library listing refused: check token)", baseURL)}
	}
	version := identity.Version
	if version == "" {
		version = "unknown version"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s, %d libraries)", baseURL, version, len(sections))}
}

// CheckLibraries verifies every selector names a section on the server.
func CheckLibraries(ctx context.Context, lister library.SectionLister, selectors []string) Result {
	const name = "Libraries"

	var wanted []string
	for _, s := range selectors {
		if s = strings.TrimSpace(s); s != "" {
			wanted = append(wanted, s)
		}
	}
	if len(wanted) == 0 {
		return Result{Name: name, Detail: "no libraries configured"}
	}

	sections, ok := lister.ListSections(ctx)
	if !ok {
		return Result{Name: name, Detail: "section list unavailable"}
	}
	known := make(map[int]bool, len(sections))
	for _, s := range sections {
		known[s.ID] = true
	}

	var missing []string
	for _, selector := range wanted {
		if id, err := strconv.Atoi(selector); err == nil {
			if !known[id] {
				missing = append(missing, selector)
			}
			continue
		}
		if _, found := library.LookupByName(selector, sections); !found {
			missing = append(missing, selector)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("not found: %s", strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(wanted, ", ")}
}

// CheckRetention verifies the older_than window parses.
func CheckRetention(olderThan string) Result {
	const name = "Retention window"

	window, err := retention.ParseDuration(olderThan)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if window == 0 {
		return Result{Name: name, Passed: true, Detail: "disabled (any watched item)"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("watched more than %s ago", window)}
}

// CheckNotifications validates the address of every configured channel.
// Nothing is sent.
func CheckNotifications(cfg *config.Config) []Result {
	n := cfg.Notifications
	endpoints := []struct {
		name    string
		url     string
		enabled bool
	}{
		{"IFTTT", n.IFTTTWebhook, n.IFTTTWebhook != ""},
		{"ntfy", n.NtfyTopic, n.NtfyTopic != ""},
		{"Pushbullet", n.PushbulletURL, n.PushbulletAPIKey != ""},
	}

	var results []Result
	for _, ep := range endpoints {
		if !ep.enabled {
			continue
		}
		if !notifications.ValidURL(ep.url) {
			results = append(results, Result{Name: ep.name, Detail: "not a valid URL (needs scheme and host)"})
			continue
		}
		results = append(results, Result{Name: ep.name, Passed: true, Detail: httpapi.RedactURL(ep.url, false)})
	}
	if len(results) == 0 {
		results = append(results, Result{Name: "Notifications", Passed: true, Detail: "none configured"})
	}
	return results
}

// CheckHistory opens the run history and verifies its integrity.
func CheckHistory(ctx context.Context, cfg *config.Config) Result {
	const name = "Run history"

	store, err := history.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := store.CheckHealth(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", health.DBPath, err)}
	}
	if !health.IntegrityCheck {
		return Result{Name: name, Detail: fmt.Sprintf("%s (integrity check: %s)", health.DBPath, health.Error)}
	}
	return Result{Name: name, Passed: true, Detail: health.DBPath}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
