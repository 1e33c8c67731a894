// Package scoredb keeps a history of scoring runs in an SQLite file.
// Comparing aligners on one dataset is the job of pkg/rank. Comparing
// today's numbers with last month's is what this is for.
package scoredb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/andrew-torda/msaqc/pkg/score"
)

// DB wraps the connection. One scoring run is a set of rows sharing a
// run id.
type DB struct {
	db *sql.DB
}

// Row is one stored score, with the run it belongs to.
type Row struct {
	RunID     string
	Input     string // the unaligned input the run started from
	CreatedAt time.Time
	score.AlignmentScore
}

// Open opens or creates the history file and makes sure the table is
// there.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("score history %s: %w", path, err)
	}
	d := &DB{db: db}
	if err := d.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("score history %s: %w", path, err)
	}
	return d, nil
}

func (d *DB) init() error {
	_, err := d.db.Exec(`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		input TEXT NOT NULL,
		label TEXT NOT NULL,
		descriptor TEXT NOT NULL,
		gap_pct REAL NOT NULL,
		match_pct REAL NOT NULL,
		entropy REAL NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Close closes the underlying handle.
func (d *DB) Close() error { return d.db.Close() }

// SaveRun stores one score per tool under a fresh run id and returns
// the id. An empty score slice is a caller bug, reported as an error
// rather than a silent empty run.
func (d *DB) SaveRun(input string, scores []score.AlignmentScore) (string, error) {
	if len(scores) == 0 {
		return "", fmt.Errorf("refusing to save a run with no scores")
	}
	runID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := d.db.Begin()
	if err != nil {
		return "", err
	}
	for _, sc := range scores {
		if _, err := tx.Exec(
			`INSERT INTO scores
			 (run_id, input, label, descriptor, gap_pct, match_pct, entropy, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, input, sc.Label, sc.Descriptor,
			sc.AvgGapPct, sc.AvgMatchPct, sc.AvgEntropy, now); err != nil {
			tx.Rollback()
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// RunScores returns the rows of one run, oldest insertion first.
func (d *DB) RunScores(runID string) ([]Row, error) {
	rows, err := d.db.Query(
		`SELECT run_id, input, label, descriptor, gap_pct, match_pct, entropy, created_at
		 FROM scores WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// LastRun returns the most recent run id, or "" if the history is
// empty. An empty history is not an error.
func (d *DB) LastRun() (string, error) {
	row := d.db.QueryRow(`SELECT run_id FROM scores ORDER BY id DESC LIMIT 1`)
	var runID string
	if err := row.Scan(&runID); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return runID, nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	var out []Row
	for rows.Next() {
		var r Row
		var created string
		if err := rows.Scan(&r.RunID, &r.Input, &r.Label, &r.Descriptor,
			&r.AvgGapPct, &r.AvgMatchPct, &r.AvgEntropy, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}
