// Package store persists log entries in SQLite and answers filtered queries.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS logs (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    ts       TEXT,
    command  TEXT NOT NULL,
    output   TEXT,
    session  TEXT
);

CREATE INDEX IF NOT EXISTS idx_logs_ts ON logs(ts);
CREATE INDEX IF NOT EXISTS idx_logs_session ON logs(session);
`

// ErrInvalidCommand is returned when a command is not valid UTF-8. The
// transcript parser substitutes bad bytes before entries reach the store, so
// this only fires on raw input handed straight to a write call. In a bulk
// insert it aborts the whole batch.
var ErrInvalidCommand = errors.New("command is not valid UTF-8")

// Store is a handle on the structured log database. Each logical unit of
// work opens its own Store and closes it before returning; there is no
// long-lived shared handle.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath and brings the schema up to
// date.
func Open(dbPath string) (*Store, error) {
	return open(dbPath, false)
}

// Init opens the database and, when reset is true, drops and recreates the
// logs table first. Destructive; used only for explicit rebuilds.
func Init(dbPath string, reset bool) (*Store, error) {
	return open(dbPath, reset)
}

func open(dbPath string, reset bool) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening log db: %w", err)
	}

	if reset {
		if _, err := db.Exec("DROP TABLE IF EXISTS logs"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("resetting logs table: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	if err := upgradeSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("upgrading schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// upgradeSchema verifies the column set and backfills rows left behind by
// older schema versions. The ts column postdates the original schema;
// additions are additive so old databases keep working.
func upgradeSchema(db *sql.DB) error {
	cols, err := tableColumns(db, "logs")
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}

	if !cols["ts"] {
		if _, err := db.Exec("ALTER TABLE logs ADD COLUMN ts TEXT"); err != nil {
			return err
		}
	}

	return backfillTimestamps(db)
}

// backfillTimestamps derives a ts for rows missing one, from the session
// identity where possible. Rows with no derivable timestamp stay NULL and
// sort last.
func backfillTimestamps(db *sql.DB) error {
	rows, err := db.Query("SELECT id, session FROM logs WHERE ts IS NULL OR ts = ''")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	type fix struct {
		id int64
		ts string
	}
	var fixes []fix
	for rows.Next() {
		var id int64
		var sess sql.NullString
		if err := rows.Scan(&id, &sess); err != nil {
			return err
		}
		e := Entry{Session: sess.String}
		if ts, ok := resolveTS(e); ok {
			fixes = append(fixes, fix{id: id, ts: ts.Format(TimeLayout)})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, f := range fixes {
		if _, err := db.Exec("UPDATE logs SET ts = ? WHERE id = ?", f.ts, f.id); err != nil {
			return err
		}
	}
	return nil
}

func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// Insert persists one entry. Whitespace-only commands are dropped without
// error. The timestamp falls back to one derived from the session identity,
// then to NULL.
func (s *Store) Insert(e Entry) error {
	cmd := normalizeCommand(e.Command)
	if cmd == "" {
		return nil
	}
	if !utf8.ValidString(cmd) {
		return ErrInvalidCommand
	}

	_, err := s.db.Exec(
		"INSERT INTO logs (ts, command, output, session) VALUES (?, ?, ?, ?)",
		tsValue(e), cmd, e.Output, nullable(e.Session),
	)
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}
	return nil
}

// InsertMany persists a batch in one transaction: either every row lands or
// none do, which keeps migration re-runs reproducible. Empty commands are
// skipped; an invalid command aborts the batch.
func (s *Store) InsertMany(entries []Entry) error {
	prepared := make([]Entry, 0, len(entries))
	for _, e := range entries {
		cmd := normalizeCommand(e.Command)
		if cmd == "" {
			continue
		}
		if !utf8.ValidString(cmd) {
			return fmt.Errorf("batch insert: %w", ErrInvalidCommand)
		}
		e.Command = cmd
		prepared = append(prepared, e)
	}
	if len(prepared) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare("INSERT INTO logs (ts, command, output, session) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing batch insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range prepared {
		if _, err := stmt.Exec(tsValue(e), e.Command, e.Output, nullable(e.Session)); err != nil {
			return fmt.Errorf("batch insert: %w", err)
		}
	}
	return tx.Commit()
}

// tsValue formats the resolved timestamp for storage, or NULL when unknown.
func tsValue(e Entry) any {
	if ts, ok := resolveTS(e); ok {
		return ts.Format(TimeLayout)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Count returns the total number of stored entries.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM logs").Scan(&n)
	return n, err
}

// parseTS converts a stored ts back into a time.Time; unparseable or NULL
// values become the zero time.
func parseTS(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	ts, err := time.ParseInLocation(TimeLayout, v.String, time.Local)
	if err != nil {
		return time.Time{}
	}
	return ts
}
