package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ttylog/internal/config"
)

// CaptureFile is one discovered raw capture file.
type CaptureFile struct {
	Path    string    // absolute path
	Name    string    // path relative to the log root (the session identity)
	ModTime time.Time // file mtime
}

// Timestamp resolves the session start time: the identity embedded in the
// file name when parseable, otherwise the file's mtime.
func (f CaptureFile) Timestamp() time.Time {
	if ts, ok := RecoverTimestamp(f.Name); ok {
		return ts
	}
	return f.ModTime
}

// Scan walks the log root and returns every capture file sorted by mtime
// ascending. A missing log root is nothing to do, not an error.
func Scan(paths config.Paths) ([]CaptureFile, error) {
	if _, err := os.Stat(paths.LogRoot); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []CaptureFile
	err := filepath.WalkDir(paths.LogRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".log" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // raced deletion during the walk
		}
		rel, err := filepath.Rel(paths.LogRoot, path)
		if err != nil {
			rel = d.Name()
		}
		files = append(files, CaptureFile{Path: path, Name: rel, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// ScanSorted returns capture files in deterministic path order, which the
// migration driver uses so re-runs visit files identically.
func ScanSorted(paths config.Paths) ([]CaptureFile, error) {
	files, err := Scan(paths)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Latest returns the most recently modified capture file, or nil when none
// have been recorded.
func Latest(paths config.Paths) (*CaptureFile, error) {
	files, err := Scan(paths)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[len(files)-1], nil
}

// Dump streams a capture file verbatim to w.
func Dump(f CaptureFile, w io.Writer) error {
	handle, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer handle.Close()

	if _, err := io.Copy(w, handle); err != nil {
		return fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return nil
}

// Match is one raw-search hit.
type Match struct {
	File CaptureFile
	Line string
}

// SearchRaw scans every capture file for lines containing keyword. Files
// that cannot be read are reported through onError and skipped.
func SearchRaw(paths config.Paths, keyword string, onError func(CaptureFile, error)) ([]Match, error) {
	files, err := Scan(paths)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, f := range files {
		handle, err := os.Open(f.Path)
		if err != nil {
			if onError != nil {
				onError(f, err)
			}
			continue
		}

		scanner := bufio.NewScanner(handle)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if strings.Contains(scanner.Text(), keyword) {
				matches = append(matches, Match{File: f, Line: scanner.Text()})
			}
		}
		if err := scanner.Err(); err != nil && onError != nil {
			onError(f, err)
		}
		_ = handle.Close()
	}
	return matches, nil
}
