package textutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var spanUnits = map[byte]time.Duration{
	'w': 7 * 24 * time.Hour,
	'd': 24 * time.Hour,
	'h': time.Hour,
	'm': time.Minute,
	's': time.Second,
}

// SpanError names the token that made a span unparseable.
type SpanError struct {
	Value string
	Token string
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("invalid token %q in %q (use forms like 1w 2d 3h 30m 10s)", e.Token, e.Value)
}

// ParseSpan parses whitespace separated <n><unit> tokens such as "1d 2h 30m"
// with units w, d, h, m and s. An empty string or "0" is zero. Spans that do
// not fit in a time.Duration are rejected rather than wrapped.
func ParseSpan(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}
	var total time.Duration
	for _, token := range strings.Fields(strings.ToLower(value)) {
		bad := &SpanError{Value: value, Token: token}
		if len(token) < 2 {
			return 0, bad
		}
		unit, ok := spanUnits[token[len(token)-1]]
		if !ok {
			return 0, bad
		}
		n, err := strconv.ParseInt(token[:len(token)-1], 10, 64)
		if err != nil || n < 0 || n > math.MaxInt64/int64(unit) {
			return 0, bad
		}
		step := time.Duration(n) * unit
		if total > math.MaxInt64-step {
			return 0, bad
		}
		total += step
	}
	return total, nil
}
