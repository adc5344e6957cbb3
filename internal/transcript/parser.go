// Package transcript reconstructs command/output pairs from raw capture
// files.
package transcript

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"ttylog/internal/session"
	"ttylog/internal/store"
)

// commandPrefix marks a command echo line in a capture file. Everything
// after it on the line is the command; following lines up to the next marker
// are that command's output.
const commandPrefix = "$ "

// ParseFile reads one capture file and returns its entries in order. Every
// entry carries the session timestamp, recovered from the file name or, when
// the name is malformed, the file's mtime. A garbled name degrades to an
// approximate time, never a failed parse.
//
// Open and read failures are returned to the caller so a multi-file
// migration can report and skip the file.
func ParseFile(f session.CaptureFile) ([]store.Entry, error) {
	handle, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer handle.Close()

	ts := f.Timestamp()

	var (
		entries []store.Entry
		command string
		output  []string
		started bool
	)

	flush := func() {
		if !started {
			return
		}
		entries = append(entries, store.Entry{
			TS:      ts,
			Command: command,
			Output:  strings.TrimRight(strings.Join(output, "\n"), " \t\r\n"),
			Session: f.Name,
		})
	}

	scanner := bufio.NewScanner(handle)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		// Capture files can contain arbitrary terminal bytes; replace
		// anything undecodable instead of aborting.
		line := strings.ToValidUTF8(strings.TrimRight(scanner.Text(), "\r"), "�")

		if strings.HasPrefix(line, commandPrefix) {
			flush()
			command = strings.TrimSpace(line[len(commandPrefix):])
			output = output[:0]
			started = true
			continue
		}
		if !started {
			// Output before the first command marker belongs to no one.
			continue
		}
		output = append(output, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}

	flush()
	return entries, nil
}
