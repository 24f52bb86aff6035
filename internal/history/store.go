/*
PURPOSE:
  Records finished benchmark runs in a SQLite database so pass-rate trends
  can be compared across runs of the system under test.

REQUIREMENTS:
  User-specified:
  - Keep one row per run plus one row per question type.
  - List the newest runs first.

  Implementation-discovered:
  - Pure-Go driver so the binary stays cgo-free.
  - A run and its per-type rows must land together or not at all.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (run, history)
  - Consumes: internal/model.Summary
  - Dependencies: database/sql, modernc.org/sqlite

ERROR HANDLING:
  - Schema creation and every query return wrapped errors.
  - Record rolls back on any failed insert (duplicate run id included).

IMPLEMENTATION RULES:
  - CREATE TABLE IF NOT EXISTS on Open.
  - Per-type pass rate and percentage are derived on read, never stored.

USAGE:
  store, err := history.Open("runs.db")
  defer store.Close()
  err = store.Record(ctx, summary, "benchmark_results.json")
  runs, err := store.Recent(ctx, 10)

SELF-HEALING INSTRUCTIONS:
  - If a column is added, existing databases need an ALTER TABLE in init().

RELATED FILES:
  - internal/cli/history.go
  - internal/cli/run.go

MAINTENANCE:
  - Update when Summary gains fields worth trending.
*/

package history

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/daryltucker/lexbench/internal/model"
)

// Run is one recorded benchmark run.
type Run struct {
	RunID             string
	Timestamp         string
	Total             int
	Passed            int
	PassRate          float64
	OverallPercentage float64
	ReportPath        string
	ByType            map[string]model.TypeStats
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			total INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			pass_rate REAL NOT NULL,
			overall_percentage REAL NOT NULL,
			report_path TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS run_types (
			run_id TEXT NOT NULL REFERENCES runs(run_id),
			type TEXT NOT NULL,
			count INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			total_score REAL NOT NULL,
			max_score REAL NOT NULL,
			PRIMARY KEY (run_id, type)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create run_types table: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores summary and its per-type breakdown in one transaction.
func (s *Store) Record(ctx context.Context, summary model.Summary, reportPath string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, timestamp, total, passed, pass_rate, overall_percentage, report_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, summary.RunID, summary.Timestamp, summary.TotalTests, summary.PassedTests,
		summary.PassRate, summary.OverallPercentage, reportPath)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", summary.RunID, err)
	}

	kinds := make([]string, 0, len(summary.ByType))
	for k := range summary.ByType {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		st := summary.ByType[k]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_types (run_id, type, count, passed, total_score, max_score)
			VALUES (?, ?, ?, ?, ?, ?)
		`, summary.RunID, k, st.Count, st.Passed, st.TotalScore, st.MaxScore)
		if err != nil {
			return fmt.Errorf("insert run type %s/%s: %w", summary.RunID, k, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, timestamp, total, passed, pass_rate, overall_percentage, COALESCE(report_path, '')
		FROM runs
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Timestamp, &r.Total, &r.Passed, &r.PassRate, &r.OverallPercentage, &r.ReportPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		byType, err := s.types(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].ByType = byType
	}
	return runs, nil
}

func (s *Store) types(ctx context.Context, runID string) (map[string]model.TypeStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, count, passed, total_score, max_score
		FROM run_types
		WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run types for %s: %w", runID, err)
	}
	defer rows.Close()

	out := make(map[string]model.TypeStats)
	for rows.Next() {
		var kind string
		var st model.TypeStats
		if err := rows.Scan(&kind, &st.Count, &st.Passed, &st.TotalScore, &st.MaxScore); err != nil {
			return nil, fmt.Errorf("scan run type: %w", err)
		}
		if st.Count > 0 {
			st.PassRate = float64(st.Passed) / float64(st.Count)
		}
		if st.MaxScore > 0 {
			st.Percentage = st.TotalScore / st.MaxScore * 100
		}
		out[kind] = st
	}
	return out, rows.Err()
}
