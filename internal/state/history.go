// Package state persists split-run history so past runs can be listed
// and compared without re-reading output trees.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded dataset split.
type Run struct {
	ID        int64
	StartedAt time.Time
	DataDir   string
	OutputDir string
	Ratio     string
	Seed      *int64
	Moved     bool
	Classes   int
	Images    int
}

// Store is a sqlite-backed run history.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default history database path.
func DefaultPath() string {
	return filepath.Join(".splitforge", "history.db")
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	data_dir   TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	ratio      TEXT NOT NULL,
	seed       INTEGER,
	moved      INTEGER NOT NULL DEFAULT 0,
	classes    INTEGER NOT NULL,
	images     INTEGER NOT NULL
);`

// Open opens (and creates if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one run to the history.
func (s *Store) Record(r Run) error {
	var seed any
	if r.Seed != nil {
		seed = *r.Seed
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (started_at, data_dir, output_dir, ratio, seed, moved, classes, images)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339), r.DataDir, r.OutputDir,
		r.Ratio, seed, r.Moved, r.Classes, r.Images,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) List(limit int) ([]Run, error) {
	q := `SELECT id, started_at, data_dir, output_dir, ratio, seed, moved, classes, images
	      FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
			seed    sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &started, &r.DataDir, &r.OutputDir, &r.Ratio, &seed, &r.Moved, &r.Classes, &r.Images); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		if seed.Valid {
			v := seed.Int64
			r.Seed = &v
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
