// Package retention decides which library entries are eligible for deletion.
package retention

import (
	"time"

	"plexorcist/internal/services"
	"plexorcist/internal/services/plex"
	"plexorcist/internal/textutil"
)

// Policy is the age gate applied to watched entries. Threshold is a unix
// timestamp in seconds; zero disables the gate so any watched entry is
// eligible.
type Policy struct {
	Threshold int64
}

// NewPolicy computes the threshold once for a run. A non-positive duration
// yields a disabled policy.
func NewPolicy(now time.Time, olderThan time.Duration) Policy {
	if olderThan <= 0 {
		return Policy{}
	}
	return Policy{Threshold: now.Add(-olderThan).Unix()}
}

// Enabled reports whether the age gate is active.
func (p Policy) Enabled() bool {
	return p.Threshold != 0
}

// Eligible reports whether entry may be deleted under p: it must have been
// watched at least once and, when the gate is active, last watched at or
// before the threshold.
func (p Policy) Eligible(entry plex.Entry) bool {
	if !entry.Watched() {
		return false
	}
	if p.Threshold == 0 {
		return true
	}
	return entry.LastViewedAt != nil && *entry.LastViewedAt <= p.Threshold
}

// Filter returns the eligible entries in their original order.
func Filter(entries []plex.Entry, policy Policy) []plex.Entry {
	out := make([]plex.Entry, 0, len(entries))
	for _, entry := range entries {
		if policy.Eligible(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// ParseDuration parses a retention window such as "1d 2h 30m". An empty
// string or "0" disables retention and returns zero. Malformed windows, and
// windows too long for a time.Duration, are configuration errors.
func ParseDuration(value string) (time.Duration, error) {
	window, err := textutil.ParseSpan(value)
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "retention", "parse older_than", "invalid retention window", err)
	}
	return window, nil
}
