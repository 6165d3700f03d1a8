package workflow

import (
	"time"

	"plexorcist/internal/retention"
	"plexorcist/internal/services/plex"
)

// Policy pairs the retention policy with the window it was built from.
type Policy struct {
	retention.Policy
	Window time.Duration
}

// Filter returns the entries eligible under the policy.
func (p Policy) Filter(entries []plex.Entry) []plex.Entry {
	return retention.Filter(entries, p.Policy)
}

func buildPolicy(olderThan string, now time.Time) (Policy, error) {
	window, err := retention.ParseDuration(olderThan)
	if err != nil {
		return Policy{}, err
	}
	return Policy{Policy: retention.NewPolicy(now, window), Window: window}, nil
}
