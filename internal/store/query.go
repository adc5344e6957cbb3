package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Query describes a filtered search. Zero-valued fields are unset.
//
// Text matching is case-sensitive containment over command OR output,
// implemented with instr() rather than LIKE: SQLite's LIKE is
// case-insensitive for ASCII and treats % and _ as wildcards, neither of
// which this contract wants.
type Query struct {
	Text    string    // substring of command or output
	After   time.Time // inclusive lower ts bound
	Before  time.Time // inclusive upper ts bound
	Session string    // exact session match
}

// defaultOrder puts the newest entries first and groups unknown-timestamp
// rows in a block after every timestamped row. Ties break by insertion order
// descending.
const defaultOrder = "ORDER BY ts IS NULL, ts DESC, id DESC"

const entryColumns = "id, ts, command, output, session"

// Search returns entries matching q, newest first. Time bounds apply only to
// entries whose timestamp is known; an unknown timestamp cannot satisfy a
// bound.
func (s *Store) Search(q Query) ([]Entry, error) {
	where := ""
	var clauses []string
	var params []any

	if q.Text != "" {
		clauses = append(clauses, "(instr(command, ?) > 0 OR instr(output, ?) > 0)")
		params = append(params, q.Text, q.Text)
	}
	if !q.After.IsZero() {
		clauses = append(clauses, "ts >= ?")
		params = append(params, q.After.Format(TimeLayout))
	}
	if !q.Before.IsZero() {
		clauses = append(clauses, "ts <= ?")
		params = append(params, q.Before.Format(TimeLayout))
	}
	if q.Session != "" {
		clauses = append(clauses, "session = ?")
		params = append(params, q.Session)
	}

	for i, c := range clauses {
		if i == 0 {
			where = "WHERE " + c
		} else {
			where += " AND " + c
		}
	}

	sqlText := fmt.Sprintf("SELECT %s FROM logs %s %s", entryColumns, where, defaultOrder)
	return s.queryEntries(sqlText, params...)
}

// Latest returns the most recent entries up to limit.
func (s *Store) Latest(limit int) ([]Entry, error) {
	sqlText := fmt.Sprintf("SELECT %s FROM logs %s LIMIT ?", entryColumns, defaultOrder)
	return s.queryEntries(sqlText, limit)
}

// FetchAll returns every stored entry, newest first.
func (s *Store) FetchAll() ([]Entry, error) {
	sqlText := fmt.Sprintf("SELECT %s FROM logs %s", entryColumns, defaultOrder)
	return s.queryEntries(sqlText)
}

func (s *Store) queryEntries(sqlText string, params ...any) ([]Entry, error) {
	rows, err := s.db.Query(sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("querying logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			ts      sql.NullString
			output  sql.NullString
			session sql.NullString
		)
		if err := rows.Scan(&e.ID, &ts, &e.Command, &output, &session); err != nil {
			return nil, err
		}
		e.TS = parseTS(ts)
		e.Output = output.String
		e.Session = session.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SessionSummary aggregates one session's entries.
type SessionSummary struct {
	Session string
	FirstTS time.Time // minimum entry timestamp; zero when unknown
	Count   int64
}

// ListSessions returns one summary per distinct session, newest first, with
// unknown-timestamp sessions trailing.
func (s *Store) ListSessions() ([]SessionSummary, error) {
	rows, err := s.db.Query(`
		SELECT session, MIN(ts), COUNT(*)
		FROM logs
		GROUP BY session
		ORDER BY MIN(ts) IS NULL, MIN(ts) DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []SessionSummary
	for rows.Next() {
		var (
			sum     SessionSummary
			sess    sql.NullString
			firstTS sql.NullString
		)
		if err := rows.Scan(&sess, &firstTS, &sum.Count); err != nil {
			return nil, err
		}
		sum.Session = sess.String
		sum.FirstTS = parseTS(firstTS)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
