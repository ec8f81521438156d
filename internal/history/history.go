// Package history provides a SQLite-backed log of generated reviews.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	output_path    TEXT NOT NULL,
	period_preset  TEXT NOT NULL,
	period_label   TEXT NOT NULL DEFAULT '',
	period_start   DATETIME NOT NULL,
	period_end     DATETIME NOT NULL,
	model          TEXT NOT NULL DEFAULT '',
	notes_scanned  INTEGER NOT NULL DEFAULT 0,
	notes_included INTEGER NOT NULL DEFAULT 0,
	checksum       TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// DB wraps a sql.DB with run-history operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Run is one recorded review generation.
type Run struct {
	ID            int64     `json:"id"`
	OutputPath    string    `json:"output_path"`
	PeriodPreset  string    `json:"period_preset"`
	PeriodLabel   string    `json:"period_label"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	Model         string    `json:"model"`
	NotesScanned  int       `json:"notes_scanned"`
	NotesIncluded int       `json:"notes_included"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
}

// Record inserts a run and returns its assigned id.
func (db *DB) Record(r Run) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	res, err := db.conn.Exec(`
		INSERT INTO runs (output_path, period_preset, period_label, period_start, period_end,
			model, notes_scanned, notes_included, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.OutputPath, r.PeriodPreset, r.PeriodLabel, r.PeriodStart, r.PeriodEnd,
		r.Model, r.NotesScanned, r.NotesIncluded, r.Checksum, r.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("history: record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: last insert id: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit falls back to 50.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT id, output_path, period_preset, period_label, period_start, period_end,
			model, notes_scanned, notes_included, checksum, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.OutputPath, &r.PeriodPreset, &r.PeriodLabel,
			&r.PeriodStart, &r.PeriodEnd, &r.Model, &r.NotesScanned, &r.NotesIncluded,
			&r.Checksum, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastRun returns the newest run, or nil when the log is empty.
func (db *DB) LastRun() (*Run, error) {
	runs, err := db.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
