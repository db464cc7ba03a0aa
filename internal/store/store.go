// Package store caches compiled programs in a local sqlite database, keyed
// by a hash of the frontend's AST output. The cache holds whole artifacts
// only; a miss always triggers a full compile.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested artifact is not in the store.
var ErrNotFound = errors.New("artifact not found")

// Artifact is one cached compilation result.
type Artifact struct {
	Hash      string
	Name      string
	Binary    []byte
	Debug     []byte // CBOR debug sidecar, may be empty
	CreatedAt time.Time
}

// Store is a sqlite-backed artifact cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		hash TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		binary BLOB NOT NULL,
		debug BLOB,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Put stores an artifact, replacing any previous entry for the same hash.
func (s *Store) Put(a *Artifact) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO programs (hash, name, binary, debug, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.Hash, a.Name, a.Binary, a.Debug, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("storing artifact %s: %w", a.Hash, err)
	}
	return nil
}

// Get returns the artifact for the given hash, or ErrNotFound.
func (s *Store) Get(hash string) (*Artifact, error) {
	a := &Artifact{Hash: hash}
	err := s.db.QueryRow(
		`SELECT name, binary, debug, created_at FROM programs WHERE hash = ?`, hash,
	).Scan(&a.Name, &a.Binary, &a.Debug, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("loading artifact %s: %w", hash, err)
	}
	return a, nil
}

// Delete removes the artifact for the given hash, if present.
func (s *Store) Delete(hash string) error {
	if _, err := s.db.Exec(`DELETE FROM programs WHERE hash = ?`, hash); err != nil {
		return fmt.Errorf("deleting artifact %s: %w", hash, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Hash returns the cache key for a raw AST document.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
