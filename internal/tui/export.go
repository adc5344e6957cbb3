package tui

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ttylog/internal/cli"

	tea "github.com/charmbracelet/bubbletea"
)

// export writes the currently filtered rows to a timestamped CSV under the
// exports directory.
func (a App) export() tea.Msg {
	if len(a.filtered) == 0 {
		return exportDoneMsg{err: fmt.Errorf("no rows to export")}
	}

	dir := a.paths.ExportDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return exportDoneMsg{err: fmt.Errorf("creating %s: %w", dir, err)}
	}

	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, stamp+"-logs.csv")

	f, err := os.Create(path)
	if err != nil {
		return exportDoneMsg{err: fmt.Errorf("creating %s: %w", path, err)}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ts", "session", "command", "output"}); err != nil {
		return exportDoneMsg{err: err}
	}
	for _, e := range a.filtered {
		ts := ""
		if e.HasTS() {
			ts = e.TS.Format(cli.DisplayTime)
		}
		if err := w.Write([]string{ts, e.Session, e.Command, e.Output}); err != nil {
			return exportDoneMsg{err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return exportDoneMsg{err: err}
	}

	return exportDoneMsg{path: path, rows: len(a.filtered)}
}
