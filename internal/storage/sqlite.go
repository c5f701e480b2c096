// Package storage is the persistent state store: trigger descriptors and
// captured webhook secrets, backed by SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// Open opens (and creates if needed) the SQLite database at path and
// ensures the required tables exist. path may be ":memory:" for an
// ephemeral, non-persisted store.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: database path is empty")
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("storage: create database directory: %w", err)
			}
		}
		if err := validateSQLiteFilesystem(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	// modernc.org/sqlite has no internal connection multiplexing; a single
	// writer avoids "database is locked" contention under the fan-out load.
	db.SetMaxOpenConns(1)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: enable foreign_keys: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: set busy_timeout: %w", err)
	}
	if err := bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS webhook_secrets (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  webhook_id TEXT NOT NULL,
  provider   TEXT NOT NULL,
  secret     TEXT,
  created_at TEXT NOT NULL,
  UNIQUE(webhook_id, provider)
);`,
		`CREATE TABLE IF NOT EXISTS slack_triggers (
  webhook_id             TEXT PRIMARY KEY,
  workflow_id            TEXT NOT NULL,
  workflow_name          TEXT NOT NULL DEFAULT '',
  workflow_active        INTEGER NOT NULL DEFAULT 0,
  event_types            TEXT NOT NULL DEFAULT '[]',
  channels               TEXT NOT NULL DEFAULT '[]',
  watch_whole_workspace  INTEGER NOT NULL DEFAULT 0,
  updated_at             TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS jira_triggers (
  webhook_id      TEXT PRIMARY KEY,
  workflow_id     TEXT NOT NULL,
  workflow_name   TEXT NOT NULL DEFAULT '',
  workflow_active INTEGER NOT NULL DEFAULT 0,
  event_types     TEXT NOT NULL DEFAULT '[]',
  updated_at      TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS github_triggers (
  webhook_id      TEXT PRIMARY KEY,
  workflow_id     TEXT NOT NULL,
  workflow_name   TEXT NOT NULL DEFAULT '',
  workflow_active INTEGER NOT NULL DEFAULT 0,
  owner           TEXT NOT NULL DEFAULT '',
  repository      TEXT NOT NULL DEFAULT '',
  event_types     TEXT NOT NULL DEFAULT '[]',
  updated_at      TEXT NOT NULL
);`,
		`INSERT OR IGNORE INTO meta(key, value) VALUES ('schema_version', ?);`,
	}

	for i, stmt := range stmts {
		var err error
		if i == len(stmts)-1 {
			_, err = db.ExecContext(ctx, stmt, fmt.Sprintf("%d", schemaVersion))
		} else {
			_, err = db.ExecContext(ctx, stmt)
		}
		if err != nil {
			return fmt.Errorf("storage: bootstrap sqlite: %w", err)
		}
	}
	return nil
}
