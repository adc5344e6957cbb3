package store

import (
	"strings"
	"time"

	"ttylog/internal/session"
)

// TimeLayout is how timestamps are persisted: ISO-8601 at second precision.
// Lexical comparison on stored values matches chronological comparison, so
// the ts index serves range filters directly.
const TimeLayout = "2006-01-02T15:04:05"

// Entry is one recorded command and its captured output. A zero TS means the
// timestamp is unknown; such rows sort after all timestamped rows. Entries
// are never mutated after insertion.
type Entry struct {
	ID      int64
	TS      time.Time
	Command string
	Output  string
	Session string
}

// HasTS reports whether the entry carries a known timestamp.
func (e Entry) HasTS() bool {
	return !e.TS.IsZero()
}

// resolveTS picks the timestamp persisted for an entry: the explicit one,
// else one recovered from the session identity, else unknown.
func resolveTS(e Entry) (time.Time, bool) {
	if e.HasTS() {
		return e.TS, true
	}
	if ts, ok := session.RecoverTimestamp(e.Session); ok {
		return ts, true
	}
	return time.Time{}, false
}

// normalizeCommand trims the command text. Entries whose command trims to
// nothing are silently discarded by the write paths.
func normalizeCommand(cmd string) string {
	return strings.TrimSpace(cmd)
}
