package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
)

// SQLiteStore persists runs and their findings.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and if needed creates) the database at dbPath.
// Use ":memory:" for a throwaway store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeError(err, "open sqlite database").WithContext("path", dbPath).Build()
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, storeError(err, "initialize schema").WithContext("path", dbPath).Build()
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		locale TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		digest TEXT NOT NULL,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL,
		links INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		UNIQUE(build_id, locale)
	);
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		locale TEXT NOT NULL,
		kind TEXT NOT NULL,
		severity INTEGER NOT NULL,
		slug TEXT,
		source TEXT,
		target TEXT,
		line INTEGER,
		path TEXT,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_findings_build ON findings(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run and its findings in one transaction.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError(err, "begin transaction").Build()
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (build_id, locale, started_at, duration_ms, digest, outcome, pages, links, errors, warnings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.BuildID, run.Locale, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Digest, run.Outcome,
		run.Pages, run.Links, run.Errors, run.Warnings,
	)
	if err != nil {
		return storeError(err, "insert run").WithContext("build_id", run.BuildID).Build()
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (build_id, locale, kind, severity, slug, source, target, line, path, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storeError(err, "prepare finding insert").Build()
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range run.Findings {
		var pathJSON []byte
		if len(f.Path) > 0 {
			if pathJSON, err = json.Marshal(f.Path); err != nil {
				return storeError(err, "marshal finding path").Build()
			}
		}
		if _, err := stmt.ExecContext(ctx, run.BuildID, run.Locale, string(f.Kind), int(f.Severity),
			f.Slug, f.Source, f.Target, f.Line, string(pathJSON), f.Message); err != nil {
			return storeError(err, "insert finding").WithContext("build_id", run.BuildID).Build()
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError(err, "commit run").Build()
	}
	return nil
}

// Recent returns up to limit runs, newest first. Findings are not loaded.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, locale, started_at, duration_ms, digest, outcome, pages, links, errors, warnings
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, storeError(err, "query runs").Build()
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedMS, durationMS int64
		if err := rows.Scan(&r.BuildID, &r.Locale, &startedMS, &durationMS, &r.Digest, &r.Outcome,
			&r.Pages, &r.Links, &r.Errors, &r.Warnings); err != nil {
			return nil, storeError(err, "scan run").Build()
		}
		r.StartedAt = time.UnixMilli(startedMS)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "iterate runs").Build()
	}
	return runs, nil
}

// Findings returns the findings recorded for a build, in recorded order.
func (s *SQLiteStore) Findings(ctx context.Context, buildID string) ([]linkcheck.Finding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, severity, slug, source, target, line, path, message
		 FROM findings WHERE build_id = ? ORDER BY id`, buildID)
	if err != nil {
		return nil, storeError(err, "query findings").WithContext("build_id", buildID).Build()
	}
	defer rows.Close()

	var out []linkcheck.Finding
	for rows.Next() {
		var f linkcheck.Finding
		var kind, pathJSON string
		var severity int
		if err := rows.Scan(&kind, &severity, &f.Slug, &f.Source, &f.Target, &f.Line, &pathJSON, &f.Message); err != nil {
			return nil, storeError(err, "scan finding").Build()
		}
		f.Kind = linkcheck.Kind(kind)
		f.Severity = linkcheck.Severity(severity)
		if pathJSON != "" {
			if err := json.Unmarshal([]byte(pathJSON), &f.Path); err != nil {
				return nil, storeError(err, "unmarshal finding path").Build()
			}
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "iterate findings").Build()
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func storeError(err error, msg string) *errors.ErrorBuilder {
	return errors.StoreError(err, msg)
}
