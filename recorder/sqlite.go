package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/meenmo/almlib/report"
)

// SQLiteRecorder persists report cells to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers can inspect runs while a scenario is recording.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario  TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS report_cells (
			run_id  INTEGER NOT NULL REFERENCES runs(id),
			report  TEXT NOT NULL,
			year    INTEGER NOT NULL,
			col     TEXT NOT NULL,
			value   REAL,
			PRIMARY KEY (run_id, report, year, col)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cells_run ON report_cells(run_id, report)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// BeginRun registers a run and returns its id.
func (r *SQLiteRecorder) BeginRun(scenario string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(
		`INSERT INTO runs (scenario, timestamp) VALUES (?, ?)`,
		scenario, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return res.LastInsertId()
}

// RecordTable persists every cell of a table in one transaction.
func (r *SQLiteRecorder) RecordTable(runID int64, table *report.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("record table: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO report_cells (run_id, report, year, col, value)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("record table: %w", err)
	}
	defer stmt.Close()

	for i, year := range table.Years {
		for _, col := range table.Columns() {
			v, _ := table.Value(i, col)
			if _, err := stmt.Exec(runID, table.Name, year, col, v); err != nil {
				tx.Rollback()
				return fmt.Errorf("record table %s: %w", table.Name, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record table %s: %w", table.Name, err)
	}
	return nil
}

// RunIDs returns the recorded run ids for a scenario, oldest first.
func (r *SQLiteRecorder) RunIDs(scenario string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(
		`SELECT id FROM runs WHERE scenario = ? ORDER BY id`, scenario)
	if err != nil {
		return nil, fmt.Errorf("run ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("run ids: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run ids: %w", err)
	}
	return ids, nil
}

// CellCount returns the number of stored cells for a run, for inspection
// and tests.
func (r *SQLiteRecorder) CellCount(runID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM report_cells WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("cell count: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (r *SQLiteRecorder) Close() error { return r.db.Close() }
