package recorder

import (
	"path/filepath"
	"testing"

	"ttylog/internal/config"
	"ttylog/internal/store"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"history index stripped", "  503  git status", "git status"},
		{"tab separated index", "12\tls -la", "ls -la"},
		{"plain command untouched", "git status", "git status"},
		{"leading digits in command kept", "7z x archive.7z", "7z x archive.7z"},
		{"bare number kept", "42", "42"},
		{"whitespace only", "   \t  ", ""},
		{"empty", "", ""},
		{"index with trailing spaces", "  9  echo hi  ", "echo hi"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.raw); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func testPaths(t *testing.T) config.Paths {
	t.Helper()
	base := t.TempDir()
	return config.Paths{
		BaseDir: base,
		LogRoot: filepath.Join(base, "logs"),
		DBPath:  filepath.Join(base, "ttylog.db"),
	}
}

func TestRecord(t *testing.T) {
	paths := testPaths(t)

	if err := Record(paths, "20240307-100000-_dev_pts_0-bash", "  1  git log"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	db, err := store.Open(paths.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	entries, err := db.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Command != "git log" {
		t.Errorf("Command = %q, want %q", entries[0].Command, "git log")
	}
	if entries[0].Session != "20240307-100000-_dev_pts_0-bash" {
		t.Errorf("Session = %q", entries[0].Session)
	}
	if !entries[0].HasTS() {
		t.Error("live entry stored without a timestamp")
	}
}

func TestRecord_EmptyIsNoOp(t *testing.T) {
	paths := testPaths(t)

	if err := Record(paths, "sess", "   "); err != nil {
		t.Fatalf("Record: %v", err)
	}

	db, err := store.Open(paths.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestRecord_MissingSessionFallsBack(t *testing.T) {
	paths := testPaths(t)

	if err := Record(paths, "", "uptime"); err != nil {
		t.Fatal(err)
	}

	db, err := store.Open(paths.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	entries, err := db.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Session != UnknownSession {
		t.Errorf("entries = %+v, want one row with session %q", entries, UnknownSession)
	}
}
