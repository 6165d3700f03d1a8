package textutil

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMessage replaces positional placeholders ({0}, {1}, ...) in
// template with the string form of args. Placeholders without a matching
// argument are left untouched so a misconfigured template stays readable.
func FormatMessage(template string, args ...any) string {
	if len(args) == 0 || !strings.Contains(template, "{") {
		return template
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", formatArg(arg))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func formatArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
