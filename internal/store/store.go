// Package store owns the local sqlite file backing the durable token store
// and the report archive.
package store

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS reports (
	id            TEXT PRIMARY KEY,
	category_id   INTEGER NOT NULL,
	category_name TEXT NOT NULL,
	latitude      REAL NOT NULL,
	longitude     REAL NOT NULL,
	description   TEXT NOT NULL,
	media_type    TEXT NOT NULL DEFAULT '',
	submitted_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_submitted_at ON reports (submitted_at DESC);
`

// Open opens (creating if needed) the sqlite file at path and ensures the
// schema exists. Caller must call Close when done.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
