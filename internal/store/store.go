// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists research runs and their collected records, and
// builds a retrieval index over record bodies.
// Implements: prd004-research-store (R1-R5);
//
//	docs/ARCHITECTURE § Research Store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/flora-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "flora.db"
)

// Store manages the research store SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the research database at
// dataDir/index/flora.db. It creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dataDir: cfg.DataDir, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			research_term TEXT,
			confidence TEXT,
			synthetic INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			title TEXT,
			body TEXT NOT NULL,
			origin_url TEXT,
			section TEXT,
			extracted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_section ON records(section)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_subject ON runs(subject)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE records_fts USING fts5(title, body, content=records, content_rowid=rowid)`,
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
			END`,
			`CREATE TRIGGER records_au AFTER UPDATE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
				INSERT INTO records_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Run describes one aggregation run to be persisted alongside its records.
type Run struct {
	Subject      string
	ResearchTerm string
	Confidence   string
	Synthetic    bool
}

// SaveRun persists a run and its records in one transaction and returns
// the generated run ID.
func (s *Store) SaveRun(ctx context.Context, run Run, records []types.ContentRecord) (string, error) {
	if run.Subject == "" {
		return "", fmt.Errorf("run subject is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	synthetic := 0
	if run.Synthetic {
		synthetic = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, subject, research_term, confidence, synthetic, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, run.Subject, run.ResearchTerm, run.Confidence, synthetic,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, source, title, body, origin_url, section, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		extractedAt := ""
		if !r.ExtractedAt.IsZero() {
			extractedAt = r.ExtractedAt.UTC().Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			runID, r.Source, r.Title, r.Body, r.OriginURL, string(r.Section), extractedAt,
		)
		if err != nil {
			return "", fmt.Errorf("inserting record for %s: %w", r.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Status holds record counts for the status report.
type Status struct {
	Runs     int            `json:"runs" yaml:"runs"`
	Records  int            `json:"records" yaml:"records"`
	Subjects int            `json:"subjects" yaml:"subjects"`
	BySource map[string]int `json:"by_source,omitempty" yaml:"by_source,omitempty"`
}

// Stats reports aggregate counts across the store.
func (s *Store) Stats(ctx context.Context) (Status, error) {
	var st Status
	row := s.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM runs),
		        (SELECT count(*) FROM records),
		        (SELECT count(DISTINCT subject) FROM runs)`)
	if err := row.Scan(&st.Runs, &st.Records, &st.Subjects); err != nil {
		return st, fmt.Errorf("counting rows: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, count(*) FROM records GROUP BY source ORDER BY source`)
	if err != nil {
		return st, fmt.Errorf("counting sources: %w", err)
	}
	defer rows.Close()

	st.BySource = make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return st, fmt.Errorf("scanning source count: %w", err)
		}
		st.BySource[source] = n
	}
	return st, rows.Err()
}
