package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTest(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ttylog.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, dbPath
}

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(TimeLayout, value, time.Local)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func TestInsert_EmptyCommandDropped(t *testing.T) {
	s, _ := openTest(t)

	if err := s.Insert(Entry{Command: "   \t  ", Session: "sess"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0 after whitespace-only insert", n)
	}
}

func TestOrdering_UnknownTimestampLast(t *testing.T) {
	s, _ := openTest(t)

	t1 := ts(t, "2024-03-07T10:00:00")
	t2 := ts(t, "2024-03-07T11:00:00")

	// Session "unknown" carries no recoverable timestamp, so the entry
	// persists with ts NULL.
	inserts := []Entry{
		{TS: t1, Command: "first", Session: "s"},
		{TS: t2, Command: "second", Session: "s"},
		{Command: "undated", Session: "unknown"},
	}
	for _, e := range inserts {
		if err := s.Insert(e); err != nil {
			t.Fatalf("Insert(%q): %v", e.Command, err)
		}
	}

	entries, err := s.FetchAll()
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	want := []string{"second", "first", "undated"}
	for i, cmd := range want {
		if entries[i].Command != cmd {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Command, cmd)
		}
	}
	if entries[2].HasTS() {
		t.Error("undated entry reports a timestamp")
	}
}

func TestOrdering_TiesBreakByInsertionOrderDesc(t *testing.T) {
	s, _ := openTest(t)

	same := ts(t, "2024-03-07T10:00:00")
	for _, cmd := range []string{"a", "b", "c"} {
		if err := s.Insert(Entry{TS: same, Command: cmd, Session: "s"}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "b", "a"}
	for i, cmd := range want {
		if entries[i].Command != cmd {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Command, cmd)
		}
	}
}

func TestInsert_TimestampDerivedFromSession(t *testing.T) {
	s, _ := openTest(t)

	if err := s.Insert(Entry{Command: "ls", Session: "20240307-143009-_dev_pts_0-bash.log"}); err != nil {
		t.Fatal(err)
	}

	entries, err := s.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 7, 14, 30, 9, 0, time.Local)
	if !entries[0].TS.Equal(want) {
		t.Errorf("TS = %v, want %v (derived from session)", entries[0].TS, want)
	}
}

func TestSearch_CaseSensitiveContainment(t *testing.T) {
	s, _ := openTest(t)

	seed := []Entry{
		{TS: ts(t, "2024-03-07T10:00:00"), Command: "git Status", Session: "s"},
		{TS: ts(t, "2024-03-07T10:01:00"), Command: "git status", Session: "s"},
		{TS: ts(t, "2024-03-07T10:02:00"), Command: "ls", Output: "status.txt", Session: "s"},
	}
	if err := s.InsertMany(seed); err != nil {
		t.Fatal(err)
	}

	// Matching is case-sensitive: "status" must not match "Status", and it
	// matches in output as well as command.
	entries, err := s.Search(Query{Text: "status"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d matches, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Command == "git Status" {
			t.Error("case-insensitive match leaked through")
		}
	}

	// Percent is a literal, not a wildcard.
	if err := s.Insert(Entry{TS: ts(t, "2024-03-07T10:03:00"), Command: "df -h 100%", Session: "s"}); err != nil {
		t.Fatal(err)
	}
	entries, err = s.Search(Query{Text: "100%"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Command != "df -h 100%" {
		t.Errorf("literal %% search = %v", entries)
	}
}

func TestSearch_TimeBoundsInclusive(t *testing.T) {
	s, _ := openTest(t)

	seed := []Entry{
		{TS: ts(t, "2024-03-07T10:00:00"), Command: "early", Session: "s"},
		{TS: ts(t, "2024-03-07T11:00:00"), Command: "middle", Session: "s"},
		{TS: ts(t, "2024-03-07T12:00:00"), Command: "late", Session: "s"},
	}
	if err := s.InsertMany(seed); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Search(Query{
		After:  ts(t, "2024-03-07T10:00:00"),
		Before: ts(t, "2024-03-07T11:00:00"),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (bounds inclusive)", len(entries))
	}
	if entries[0].Command != "middle" || entries[1].Command != "early" {
		t.Errorf("order = %q, %q", entries[0].Command, entries[1].Command)
	}
}

func TestSearch_SessionExactMatch(t *testing.T) {
	s, _ := openTest(t)

	seed := []Entry{
		{TS: ts(t, "2024-03-07T10:00:00"), Command: "a", Session: "sess-one"},
		{TS: ts(t, "2024-03-07T10:01:00"), Command: "b", Session: "sess-one-extended"},
	}
	if err := s.InsertMany(seed); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Search(Query{Session: "sess-one"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Command != "a" {
		t.Errorf("session filter matched %v, want exactly [a]", entries)
	}
}

func TestInsertMany_Atomic(t *testing.T) {
	s, _ := openTest(t)

	batch := []Entry{
		{TS: ts(t, "2024-03-07T10:00:00"), Command: "good one", Session: "s"},
		{TS: ts(t, "2024-03-07T10:01:00"), Command: "bad \xff\xfe", Session: "s"},
		{TS: ts(t, "2024-03-07T10:02:00"), Command: "good two", Session: "s"},
	}

	err := s.InsertMany(batch)
	if !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("InsertMany err = %v, want ErrInvalidCommand", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count = %d after failed batch, want 0", n)
	}
}

func TestInsertMany_SkipsEmptyCommands(t *testing.T) {
	s, _ := openTest(t)

	batch := []Entry{
		{TS: ts(t, "2024-03-07T10:00:00"), Command: "real", Session: "s"},
		{TS: ts(t, "2024-03-07T10:01:00"), Command: "   ", Session: "s"},
	}
	if err := s.InsertMany(batch); err != nil {
		t.Fatalf("InsertMany: %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestListSessions(t *testing.T) {
	s, _ := openTest(t)

	seed := []Entry{
		{TS: ts(t, "2024-03-07T10:00:00"), Command: "a", Session: "older"},
		{TS: ts(t, "2024-03-07T10:05:00"), Command: "b", Session: "older"},
		{TS: ts(t, "2024-03-07T11:00:00"), Command: "c", Session: "newer"},
	}
	if err := s.InsertMany(seed); err != nil {
		t.Fatal(err)
	}

	summaries, err := s.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	if summaries[0].Session != "newer" || summaries[0].Count != 1 {
		t.Errorf("summaries[0] = %+v", summaries[0])
	}
	if summaries[1].Session != "older" || summaries[1].Count != 2 {
		t.Errorf("summaries[1] = %+v", summaries[1])
	}
	if !summaries[1].FirstTS.Equal(ts(t, "2024-03-07T10:00:00")) {
		t.Errorf("FirstTS = %v, want the session minimum", summaries[1].FirstTS)
	}
}

func TestLatest_Limit(t *testing.T) {
	s, _ := openTest(t)

	for i, cmd := range []string{"a", "b", "c"} {
		e := Entry{
			TS:      ts(t, "2024-03-07T10:00:00").Add(time.Duration(i) * time.Minute),
			Command: cmd,
			Session: "s",
		}
		if err := s.Insert(e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.Latest(2)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Command != "c" || entries[1].Command != "b" {
		t.Errorf("Latest = %q, %q", entries[0].Command, entries[1].Command)
	}
}

func TestInit_ResetDropsRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ttylog.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(Entry{TS: time.Now(), Command: "ls", Session: "s"}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Init(dbPath, true)
	if err != nil {
		t.Fatalf("Init(reset): %v", err)
	}
	defer s.Close()

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count = %d after reset, want 0", n)
	}
}

func TestUpgrade_AddsAndBackfillsTS(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ttylog.db")

	// Build a legacy database whose logs table predates the ts column.
	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	legacy := `CREATE TABLE logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		output TEXT,
		session TEXT
	)`
	if _, err := raw.Exec(legacy); err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Exec(
		"INSERT INTO logs (command, output, session) VALUES (?, ?, ?)",
		"ls", "", "20240307-143009-_dev_pts_0-bash.log",
	); err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Exec(
		"INSERT INTO logs (command, output, session) VALUES (?, ?, ?)",
		"pwd", "", "unknown",
	); err != nil {
		t.Fatal(err)
	}
	if err := raw.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open on legacy db: %v", err)
	}
	defer s.Close()

	entries, err := s.FetchAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Derivable timestamp backfilled from the session identity; the rest
	// stay unknown and sort last.
	want := time.Date(2024, 3, 7, 14, 30, 9, 0, time.Local)
	if entries[0].Command != "ls" || !entries[0].TS.Equal(want) {
		t.Errorf("entries[0] = %q at %v, want ls at %v", entries[0].Command, entries[0].TS, want)
	}
	if entries[1].Command != "pwd" || entries[1].HasTS() {
		t.Errorf("entries[1] = %q, HasTS=%v, want pwd without timestamp", entries[1].Command, entries[1].HasTS())
	}
}
