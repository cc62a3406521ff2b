package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite database. WAL mode plus a
// busy timeout gives the same no-torn-reads guarantee the JSON backend gets
// from file locks, with real transactions on top.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS processed_messages (
    id TEXT PRIMARY KEY,
    processed_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS message_artifacts (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_log (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    ts INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT ''
);
`

// OpenSQLite creates or opens the database at path and runs migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging state database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating state database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) IsProcessed(id string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM processed_messages WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying processed set: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) MarkProcessed(id string) error {
	_, err := s.db.Exec(
		`INSERT INTO processed_messages (id, processed_at) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET processed_at = excluded.processed_at`,
		id, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("marking processed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Artifact(id string) (string, bool, error) {
	var path string
	err := s.db.QueryRow(`SELECT path FROM message_artifacts WHERE id = ?`, id).Scan(&path)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying artifact map: %w", err)
	}
	return path, true, nil
}

func (s *SQLiteStore) SetArtifact(id, path string) error {
	_, err := s.db.Exec(
		`INSERT INTO message_artifacts (id, path) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET path = excluded.path`,
		id, path,
	)
	if err != nil {
		return fmt.Errorf("recording artifact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveArtifact(id string) error {
	if _, err := s.db.Exec(`DELETE FROM message_artifacts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("removing artifact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Cleanup(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()
	res, err := s.db.Exec(`DELETE FROM processed_messages WHERE processed_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning processed set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStore) RecordRun(outcome RunOutcome, detail string) error {
	_, err := s.db.Exec(
		`INSERT INTO run_log (ts, outcome, detail) VALUES (?, ?, ?)`,
		time.Now().UnixNano(), string(outcome), detail,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	// Trim old entries beyond the cap.
	_, err = s.db.Exec(
		`DELETE FROM run_log WHERE seq <= (SELECT MAX(seq) FROM run_log) - ?`,
		maxRunRecords,
	)
	if err != nil {
		return fmt.Errorf("trimming run log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Runs(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT ts, outcome, detail FROM run_log ORDER BY seq DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run log: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var ts int64
		var outcome, detail string
		if err := rows.Scan(&ts, &outcome, &detail); err != nil {
			return nil, fmt.Errorf("scanning run log: %w", err)
		}
		runs = append(runs, RunRecord{
			Timestamp: time.Unix(0, ts),
			Outcome:   RunOutcome(outcome),
			Detail:    detail,
		})
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
