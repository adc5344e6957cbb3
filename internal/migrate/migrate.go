// Package migrate bulk-loads historical capture files into the structured
// store.
package migrate

import (
	"fmt"

	"ttylog/internal/config"
	"ttylog/internal/session"
	"ttylog/internal/store"
	"ttylog/internal/transcript"
)

// FileError records a capture file that could not be processed. The file is
// skipped; it never aborts the rest of the migration.
type FileError struct {
	Name string
	Err  error
}

// Summary reports what a migration run did.
type Summary struct {
	Entries  int64       // rows imported
	Sessions int         // capture files that contributed at least one row
	Skipped  []FileError // files skipped due to read or insert errors
}

// Run walks every capture file under the log root in path order, parses
// each, and bulk-inserts its entries in one batch per file. Files yielding
// no entries do not count toward the session total.
//
// With reset=true the logs table is rebuilt, so re-running against the same
// capture files reproduces an identical row count. Without reset, re-imported
// files duplicate their rows; there is no de-duplication key.
func Run(paths config.Paths, reset bool) (Summary, error) {
	var summary Summary

	db, err := store.Init(paths.DBPath, reset)
	if err != nil {
		return summary, fmt.Errorf("initializing store: %w", err)
	}
	defer db.Close()

	files, err := session.ScanSorted(paths)
	if err != nil {
		return summary, fmt.Errorf("scanning %s: %w", paths.LogRoot, err)
	}

	for _, f := range files {
		entries, err := transcript.ParseFile(f)
		if err != nil {
			summary.Skipped = append(summary.Skipped, FileError{Name: f.Name, Err: err})
			continue
		}
		entries = nonEmpty(entries)
		if len(entries) == 0 {
			continue
		}
		if err := db.InsertMany(entries); err != nil {
			summary.Skipped = append(summary.Skipped, FileError{Name: f.Name, Err: err})
			continue
		}
		summary.Entries += int64(len(entries))
		summary.Sessions++
	}

	return summary, nil
}

// nonEmpty drops entries the store would discard anyway, so the session and
// entry counts reflect what actually lands.
func nonEmpty(entries []store.Entry) []store.Entry {
	kept := entries[:0]
	for _, e := range entries {
		if e.Command != "" {
			kept = append(kept, e)
		}
	}
	return kept
}
