// Package store persists run history in a local SQLite database, so
// successive analyses of a project can be compared over time.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded analysis run.
type Run struct {
	ID        string
	Project   string
	CreatedAt time.Time

	FileCount        int
	ProcessedCount   int
	UnsupportedCount int
	ErrorCount       int

	NodeCount    int
	EdgeCount    int
	Connectivity float64
	Entropy      float64
}

// Store provides persistence for run history.
type Store struct {
	conn   *sql.DB
	dbPath string
}

// Open opens or creates the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{conn: conn, dbPath: dbPath}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			created_at TEXT NOT NULL,
			file_count INTEGER NOT NULL,
			processed_count INTEGER NOT NULL,
			unsupported_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			node_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			connectivity REAL NOT NULL,
			entropy REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RecordRun inserts a run, assigning an id and timestamp when unset, and
// returns the stored record.
func (s *Store) RecordRun(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.conn.Exec(`
		INSERT INTO runs (
			id, project, created_at,
			file_count, processed_count, unsupported_count, error_count,
			node_count, edge_count, connectivity, entropy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, run.CreatedAt.Format(time.RFC3339),
		run.FileCount, run.ProcessedCount, run.UnsupportedCount, run.ErrorCount,
		run.NodeCount, run.EdgeCount, run.Connectivity, run.Entropy,
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs for a project, newest first. A limit of
// 0 returns everything. An empty project matches all projects.
func (s *Store) ListRuns(project string, limit int) ([]Run, error) {
	query := `
		SELECT id, project, created_at,
			file_count, processed_count, unsupported_count, error_count,
			node_count, edge_count, connectivity, entropy
		FROM runs`
	var args []interface{}
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(
			&run.ID, &run.Project, &createdAt,
			&run.FileCount, &run.ProcessedCount, &run.UnsupportedCount, &run.ErrorCount,
			&run.NodeCount, &run.EdgeCount, &run.Connectivity, &run.Entropy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
