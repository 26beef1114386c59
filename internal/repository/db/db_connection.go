package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates the SQLite quote database and ensures tables exist.
// A "sqlite:" URI prefix is accepted and stripped; parent directories of a
// file path are created as needed.
func InitDB(uri string) (*sql.DB, error) {
	path := DSNFromURI(uri)
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// A single connection serializes writers; readers see committed state.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", strings.TrimSuffix(pragma, ";"), err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// DSNFromURI turns "sqlite:db/quotes.db" or "sqlite://db/quotes.db" into a
// driver path. Plain paths pass through unchanged.
func DSNFromURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return defaultDBPath
	}
	uri = strings.TrimPrefix(uri, "sqlite:")
	return strings.TrimPrefix(uri, "//")
}

func ensureParentDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory %q: %w", dir, err)
	}
	return nil
}

const (
	sqliteDriverName = "sqlite"
	defaultDBPath    = "db/quotes.db"
)

const schemaQuotes = `
CREATE TABLE IF NOT EXISTS quotes (
    id TEXT PRIMARY KEY NOT NULL,
    whos_there TEXT NOT NULL,
    answer_who TEXT NOT NULL,
    source TEXT NOT NULL
);
`

const schemaQuoteTags = `
CREATE TABLE IF NOT EXISTS quote_tags (
    quote_id TEXT NOT NULL REFERENCES quotes(id),
    tag TEXT NOT NULL,
    PRIMARY KEY (quote_id, tag)
);
`

const schemaQuoteTagsIndex = `
CREATE INDEX IF NOT EXISTS idx_quote_tags_tag ON quote_tags(tag);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaQuotes,
		schemaQuoteTags,
		schemaQuoteTagsIndex,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
