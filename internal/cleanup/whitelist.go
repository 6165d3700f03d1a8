package cleanup

import (
	"strings"

	"github.com/IGLOU-EU/go-wildcard"
)

// Whitelist exempts titles from deletion. Exact entries are compared
// case-sensitively; patterns use shell-style wildcards and are only consulted
// when no exact entry matches.
type Whitelist struct {
	exact    map[string]struct{}
	patterns []string
}

// NewWhitelist builds a whitelist from exact titles and wildcard patterns.
// Blank values are ignored.
func NewWhitelist(exact, patterns []string) Whitelist {
	w := Whitelist{exact: make(map[string]struct{}, len(exact))}
	for _, value := range exact {
		if value = strings.TrimSpace(value); value != "" {
			w.exact[value] = struct{}{}
		}
	}
	for _, pattern := range patterns {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			w.patterns = append(w.patterns, pattern)
		}
	}
	return w
}

// Len returns the number of exact entries plus patterns.
func (w Whitelist) Len() int {
	return len(w.exact) + len(w.patterns)
}

// Match reports whether the display title or the raw series title is
// whitelisted, and which rule matched.
func (w Whitelist) Match(title, parentTitle string) (string, bool) {
	candidates := []string{title}
	if parentTitle != "" {
		candidates = append(candidates, parentTitle)
	}
	for _, candidate := range candidates {
		if _, ok := w.exact[candidate]; ok {
			return candidate, true
		}
	}
	for _, pattern := range w.patterns {
		for _, candidate := range candidates {
			if wildcard.Match(pattern, candidate) {
				return pattern, true
			}
		}
	}
	return "", false
}
