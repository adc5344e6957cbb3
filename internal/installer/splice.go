// Package installer splices the ttylog activation snippet in and out of
// shell startup files.
package installer

import (
	"strings"

	"ttylog/internal/shell"
)

// Inject returns content with the snippet spliced in. The second return is
// false when the start marker is already present and the content is returned
// untouched.
//
// The snippet goes immediately before the first non-blank, non-comment line,
// so an existing comment preamble stays on top and the rest of the rc file
// still runs after the snippet returns. If the file is all comments and
// blanks the snippet is appended at the end.
func Inject(content, snippet string) (string, bool) {
	if markerIndex(content, shell.StartMarker) >= 0 {
		return content, false
	}
	if content == "" {
		return ensureTrailingNewline(snippet), true
	}

	lines := splitKeepEnds(content)
	insertAt := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			insertAt = i
			break
		}
	}

	// Repair a missing line break on the preceding line so the snippet
	// starts on its own line.
	if insertAt > 0 && !strings.HasSuffix(lines[insertAt-1], "\n") {
		lines = append(lines[:insertAt], append([]string{"\n"}, lines[insertAt:]...)...)
		insertAt++
	}

	lines = append(lines[:insertAt], append([]string{snippet}, lines[insertAt:]...)...)
	return ensureTrailingNewline(strings.Join(lines, "")), true
}

// Remove deletes the delimited snippet block, markers included. The second
// return reports whether anything was removed. A start marker with no end
// marker consumes through end-of-file; that keeps a truncated block from
// permanently wedging the rc file.
func Remove(content string) (string, bool) {
	lines := splitKeepEnds(content)

	start := -1
	end := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start < 0 && trimmed == shell.StartMarker {
			start = i
			continue
		}
		if start >= 0 && trimmed == shell.EndMarker {
			end = i
			break
		}
	}

	if start < 0 {
		return ensureTrailingNewline(content), false
	}
	if end < 0 {
		end = len(lines) - 1
	}

	cleaned := strings.Join(append(lines[:start:start], lines[end+1:]...), "")
	return ensureTrailingNewline(cleaned), true
}

// markerIndex finds a line that trims to exactly marker, or -1.
func markerIndex(content, marker string) int {
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == marker {
			return i
		}
	}
	return -1
}

// splitKeepEnds splits content into lines, each retaining its trailing
// newline if it had one.
func splitKeepEnds(content string) []string {
	if content == "" {
		return nil
	}
	var lines []string
	for {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:i+1])
		content = content[i+1:]
		if content == "" {
			break
		}
	}
	return lines
}

func ensureTrailingNewline(content string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		return content + "\n"
	}
	return content
}
