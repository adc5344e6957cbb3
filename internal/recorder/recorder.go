// Package recorder ingests single history lines emitted on every shell
// prompt.
package recorder

import (
	"strings"
	"time"
	"unicode"

	"ttylog/internal/config"
	"ttylog/internal/store"
)

// UnknownSession is stored when the calling shell did not export a session
// identity.
const UnknownSession = "unknown"

// Normalize strips the leading numeric history index that `history 1` style
// output carries ("  503  git status" -> "git status") and trims the rest.
// Returns "" when nothing remains.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if idx := strings.IndexFunc(text, unicode.IsSpace); idx > 0 && isDigits(text[:idx]) {
		return strings.TrimSpace(text[idx:])
	}
	return text
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Record writes one entry for a live prompt line. Empty lines after
// normalization are a silent no-op. Each call opens and releases its own
// store handle; the hook fires on every prompt and must not accumulate
// state.
func Record(paths config.Paths, sessionID, raw string) error {
	command := Normalize(raw)
	if command == "" {
		return nil
	}
	if sessionID == "" {
		sessionID = UnknownSession
	}

	db, err := store.Open(paths.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Insert(store.Entry{
		TS:      time.Now(),
		Command: command,
		Session: sessionID,
	})
}
