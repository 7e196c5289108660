package store

import (
	"database/sql"
	"fmt"
)

const ddl = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS chunks (
    rowid    INTEGER PRIMARY KEY AUTOINCREMENT,
    chunk_id TEXT NOT NULL UNIQUE,
    source   TEXT NOT NULL,
    page     INTEGER NOT NULL,
    category TEXT NOT NULL,
    text     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Init creates the base tables if they don't exist. The vec_chunks virtual
// table is created later, once the embedding dimension is known.
func Init(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}

// vecDDL builds the vec0 table DDL for a given embedding dimension.
// Cosine distance matches the retrieval contract.
func vecDDL(dimension int) string {
	return fmt.Sprintf(`CREATE VIRTUAL TABLE vec_chunks USING vec0(
    chunk_rowid INTEGER PRIMARY KEY,
    embedding float[%d] distance_metric=cosine
)`, dimension)
}
