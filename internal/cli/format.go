// Package cli provides formatting and rendering utilities for terminal
// output.
package cli

import (
	"strconv"
	"strings"
	"time"
)

// DisplayTime is the human-facing timestamp format used in tables.
const DisplayTime = "2006-01-02 15:04:05"

// FormatTime renders a timestamp for table output; unknown timestamps show
// a placeholder.
func FormatTime(ts time.Time) string {
	if ts.IsZero() {
		return "—"
	}
	return ts.Format(DisplayTime)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// Truncate shortens s to max runes, replacing line breaks with spaces and
// appending an ellipsis when cut.
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimRight(string(runes[:max-1]), " ") + "…"
}
