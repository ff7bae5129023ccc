package benchmark

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists snapshots across runs. Each snapshot is one row with
// the full record as JSON, so a single INSERT keeps appends atomic.
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

func OpenSQLiteStore(path string, limit int) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("benchmark: empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL suits the append-only workload.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	tick      INTEGER NOT NULL,
	taken_at  TEXT NOT NULL,
	data      TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, limit: limit}, nil
}

func (s *SQLiteStore) Append(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("benchmark: encoding snapshot: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO snapshots (tick, taken_at, data) VALUES (?, ?, ?)",
		snap.Tick, snap.Time.UTC().Format(time.RFC3339), string(data),
	)
	if err != nil {
		return fmt.Errorf("benchmark: appending snapshot: %w", err)
	}
	if s.limit > 0 {
		_, err = s.db.Exec(
			"DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)",
			s.limit,
		)
	}
	return err
}

func (s *SQLiteStore) History() ([]Snapshot, error) {
	rows, err := s.db.Query("SELECT data FROM snapshots ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, fmt.Errorf("benchmark: decoding snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
