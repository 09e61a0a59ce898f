// Package storage keeps an ephemeral SQLite query cache of the loaded
// knowledge base. The JSON file stays the source of truth; the cache is
// rebuilt whenever the file's digest changes.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

const metaDigestKey = "source_digest"

// OpenDB opens or creates a SQLite database at the given path, creating the
// parent directory when needed.
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS concepts (
			name TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			domain TEXT NOT NULL,
			strand TEXT NOT NULL,
			brief_explanation TEXT,
			chapters_json TEXT,
			cognitive_level TEXT,
			interconnections_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_concepts_group ON concepts(domain, strand);

		-- Standalone FTS table, rebuilt alongside concepts
		CREATE VIRTUAL TABLE IF NOT EXISTS concepts_fts USING fts5(
			name,
			domain,
			strand,
			brief_explanation
		);

		CREATE TABLE IF NOT EXISTS activities (
			position INTEGER NOT NULL,
			activity_name TEXT NOT NULL,
			parent_concept TEXT,
			status TEXT NOT NULL,
			reason TEXT,
			occurrences INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_activities_parent ON activities(parent_concept);
	`

	_, err := db.Exec(schema)
	return err
}

// Digest returns the source digest recorded by the last rebuild, or "" when
// the cache has never been built.
func (d *DB) Digest() (string, error) {
	var digest string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaDigestKey).Scan(&digest)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("reading digest: %w", err)
	}
	return digest, nil
}

// IsStale reports whether the cache was built from different source bytes.
func (d *DB) IsStale(digest string) (bool, error) {
	current, err := d.Digest()
	if err != nil {
		return true, err
	}
	return current == "" || current != digest, nil
}

// Counts summarizes the cache contents.
type Counts struct {
	Concepts int    `json:"concepts"`
	Linked   int    `json:"linked_activities"`
	Orphaned int    `json:"orphaned_activities"`
	Digest   string `json:"digest"`
}

// Counts returns row counts for the cached tables.
func (d *DB) Counts() (Counts, error) {
	var c Counts
	var err error
	if c.Digest, err = d.Digest(); err != nil {
		return c, err
	}
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM concepts`).Scan(&c.Concepts); err != nil {
		return c, fmt.Errorf("counting concepts: %w", err)
	}
	err = d.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN status = 'linked' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'orphaned' THEN 1 ELSE 0 END), 0)
		FROM activities`).Scan(&c.Linked, &c.Orphaned)
	if err != nil {
		return c, fmt.Errorf("counting activities: %w", err)
	}
	return c, nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// nullableStringFromGo converts a Go string to sql.NullString, treating empty as NULL.
func nullableStringFromGo(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery turns free text into an FTS5 query. Punctuation is
// dropped; every remaining word is quoted and prefix-matched, and all words
// must match.
func prepareFTSQuery(query string) string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, "\""+w+"\"*")
	}
	return strings.Join(terms, " ")
}
