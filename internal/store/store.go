// Package store persists chunk vectors, text, and metadata in SQLite with
// the sqlite-vec extension, and answers nearest-neighbor queries.
package store

import (
	"database/sql"
	"fmt"
	"strconv"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// Meta keys recorded alongside the index. A model or dimension change makes
// the persisted vectors unusable, so callers compare these before reuse.
const (
	MetaEmbeddingModel = "embedding_model"
	MetaEmbeddingDim   = "embedding_dim"
)

// SQLiteStore is the persisted vector index.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens the index database at the given path and initializes
// the base schema. Opening an existing index does not reprocess documents;
// this is the reuse path that avoids redundant embedding cost.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Exists reports whether a populated index is present: at least one chunk
// and a recorded embedding dimension.
func (s *SQLiteStore) Exists() (bool, error) {
	dim, err := s.GetMeta(MetaEmbeddingDim)
	if err != nil {
		return false, err
	}
	if dim == "" {
		return false, nil
	}
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of indexed chunks.
func (s *SQLiteStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}

// Reset deletes all persisted entries and recreates the vector table for the
// given embedding dimension. It is the first step of a rebuild.
func (s *SQLiteStore) Reset(dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", dimension)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DROP TABLE IF EXISTS vec_chunks"); err != nil {
		return fmt.Errorf("drop vec table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	if _, err := tx.Exec(vecDDL(dimension)); err != nil {
		return fmt.Errorf("create vec table: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		MetaEmbeddingDim, strconv.Itoa(dimension),
	); err != nil {
		return fmt.Errorf("record dimension: %w", err)
	}
	return tx.Commit()
}

// Insert stores one batch of chunks with their vectors. Chunks and vectors
// must align one to one. A chunk whose ID is already present replaces the
// earlier entry (last-write dedup by content hash).
func (s *SQLiteStore) Insert(chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatched chunks (%d) and vectors (%d)", len(chunks), len(vectors))
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	chunkStmt, err := tx.Prepare(`
		INSERT INTO chunks (chunk_id, source, page, category, text)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			source = excluded.source, page = excluded.page,
			category = excluded.category, text = excluded.text
	`)
	if err != nil {
		return err
	}
	defer chunkStmt.Close()

	vecStmt, err := tx.Prepare("INSERT INTO vec_chunks (chunk_rowid, embedding) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer vecStmt.Close()

	for i, c := range chunks {
		if _, err := chunkStmt.Exec(c.ID, c.Source, c.Page, c.Category, c.Text); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
		var rowid int64
		if err := tx.QueryRow("SELECT rowid FROM chunks WHERE chunk_id = ?", c.ID).Scan(&rowid); err != nil {
			return fmt.Errorf("resolve rowid for %s: %w", c.ID, err)
		}
		// vec0 has no upsert; drop any existing vector for this rowid first.
		if _, err := tx.Exec("DELETE FROM vec_chunks WHERE chunk_rowid = ?", rowid); err != nil {
			return fmt.Errorf("clear embedding for %s: %w", c.ID, err)
		}
		blob, err := sqlite_vec.SerializeFloat32(vectors[i])
		if err != nil {
			return fmt.Errorf("serialize embedding for %s: %w", c.ID, err)
		}
		if _, err := vecStmt.Exec(rowid, blob); err != nil {
			return fmt.Errorf("insert embedding for %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// Search returns up to k chunks nearest to the query vector, ordered by
// increasing distance. An empty index yields an empty result.
func (s *SQLiteStore) Search(queryVector []float32, k int) ([]SearchResult, error) {
	exists, err := s.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	blob, err := sqlite_vec.SerializeFloat32(queryVector)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}
	rows, err := s.db.Query(`
		SELECT c.chunk_id, c.source, c.page, c.category, c.text, v.distance
		FROM vec_chunks v
		JOIN chunks c ON c.rowid = v.chunk_rowid
		WHERE v.embedding MATCH ?
		ORDER BY v.distance
		LIMIT ?
	`, blob, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Chunk.ID, &r.Chunk.Source, &r.Chunk.Page, &r.Chunk.Category, &r.Chunk.Text, &r.Distance); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetMeta returns a metadata value by key, or "" if not set.
func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMeta sets a metadata key-value pair.
func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
