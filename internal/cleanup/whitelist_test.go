package cleanup_test

import (
	"testing"

	"plexorcist/internal/cleanup"
)

func TestWhitelistMatch(t *testing.T) {
	w := cleanup.NewWhitelist([]string{" Bluey ", "", "Movie Night"}, []string{"Doctor Who*"})
	if w.Len() != 3 {
		t.Fatalf("expected 3 rules, got %d", w.Len())
	}
	tests := []struct {
		title, parent string
		want          bool
		rule          string
	}{
		{title: "Bluey - Camping", parent: "Bluey", want: true, rule: "Bluey"},
		{title: "Movie Night", want: true, rule: "Movie Night"},
		{title: "movie night", want: false},
		{title: "Doctor Who (2005) - Rose", parent: "Doctor Who (2005)", want: true, rule: "Doctor Who*"},
		{title: "Dr Who", want: false},
	}
	for _, tc := range tests {
		rule, ok := w.Match(tc.title, tc.parent)
		if ok != tc.want || rule != tc.rule {
			t.Fatalf("Match(%q, %q) = %q %v, want %q %v", tc.title, tc.parent, rule, ok, tc.rule, tc.want)
		}
	}
}

func TestEmptyWhitelistMatchesNothing(t *testing.T) {
	var w cleanup.Whitelist
	if _, ok := w.Match("Anything", "Parent"); ok {
		t.Fatal("expected zero whitelist to match nothing")
	}
}
