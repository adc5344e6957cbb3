// Package session derives session identities and discovers capture files.
package session

import (
	"path/filepath"
	"strings"
	"time"
)

// stampLayout is the fixed-width identity prefix. Fixed width means lexical
// order on identities matches chronological order.
const stampLayout = "20060102-150405"

// NoTTY is the terminal placeholder used when there is no controlling tty.
const NoTTY = "notty"

// Name builds the canonical session identity:
// <YYYYMMDD-HHMMSS>-<terminal>-<shell>. Terminal path separators become
// underscores so the identity is a usable file name. Two sessions started in
// the same second on the same tty collide; the capture mechanism appends to
// the shared file, which is tolerated.
func Name(now time.Time, terminal, shellName string) string {
	if terminal == "" {
		terminal = NoTTY
	}
	terminal = strings.ReplaceAll(terminal, "/", "_")
	shellName = filepath.Base(shellName)
	return now.Format(stampLayout) + "-" + terminal + "-" + shellName
}

// RecoverTimestamp extracts the origination time from an identity or capture
// file name. It accepts a bare identity, a .log file name, or a relative
// path. A malformed identity yields ok=false, never an error; callers fall
// back to file modification time or the current time.
func RecoverTimestamp(identity string) (time.Time, bool) {
	stem := strings.TrimSuffix(filepath.Base(identity), filepath.Ext(identity))
	parts := strings.Split(stem, "-")
	if len(parts) < 2 {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(stampLayout, parts[0]+"-"+parts[1], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
