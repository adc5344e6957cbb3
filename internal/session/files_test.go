package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ttylog/internal/config"
)

func testPaths(t *testing.T) config.Paths {
	t.Helper()
	base := t.TempDir()
	return config.Paths{
		BaseDir: base,
		LogRoot: filepath.Join(base, "logs"),
		DBPath:  filepath.Join(base, "ttylog.db"),
	}
}

func writeCapture(t *testing.T, paths config.Paths, rel, content string) string {
	t.Helper()
	path := filepath.Join(paths.LogRoot, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScan_MissingRootIsEmpty(t *testing.T) {
	files, err := Scan(testPaths(t))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if files != nil {
		t.Errorf("files = %v, want none", files)
	}
}

func TestScan_FindsNestedLogsSortedByMtime(t *testing.T) {
	paths := testPaths(t)
	older := writeCapture(t, paths, "2024/03/06/20240306-090000-_dev_pts_0-bash.log", "$ true\n")
	newer := writeCapture(t, paths, "2024/03/07/20240307-090000-_dev_pts_0-bash.log", "$ false\n")
	writeCapture(t, paths, "2024/03/07/notes.txt", "not a capture file")

	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	files, err := Scan(paths)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("found %d files, want 2", len(files))
	}
	if files[0].Name != "2024/03/06/20240306-090000-_dev_pts_0-bash.log" {
		t.Errorf("first file = %s, want the older one", files[0].Name)
	}
	if files[1].Name != "2024/03/07/20240307-090000-_dev_pts_0-bash.log" {
		t.Errorf("second file = %s, want the newer one", files[1].Name)
	}
}

func TestCaptureFile_TimestampFallsBackToMtime(t *testing.T) {
	paths := testPaths(t)
	path := writeCapture(t, paths, "garbled.log", "$ true\n")

	mtime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	files, err := Scan(paths)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("found %d files, want 1", len(files))
	}
	if !files[0].Timestamp().Equal(mtime) {
		t.Errorf("Timestamp = %v, want mtime %v", files[0].Timestamp(), mtime)
	}
}

func TestLatest(t *testing.T) {
	paths := testPaths(t)

	latest, err := Latest(paths)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != nil {
		t.Errorf("Latest = %v on empty root", latest)
	}

	older := writeCapture(t, paths, "a.log", "$ true\n")
	newer := writeCapture(t, paths, "b.log", "$ false\n")
	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	latest, err = Latest(paths)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.Name != "b.log" {
		t.Errorf("Latest = %v, want b.log", latest)
	}
}

func TestSearchRaw(t *testing.T) {
	paths := testPaths(t)
	writeCapture(t, paths, "a.log", "$ echo needle\nneedle\n")
	writeCapture(t, paths, "b.log", "$ true\n")

	matches, err := SearchRaw(paths, "needle", nil)
	if err != nil {
		t.Fatalf("SearchRaw: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("found %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if m.File.Name != "a.log" {
			t.Errorf("match in %s, want a.log", m.File.Name)
		}
	}
}
