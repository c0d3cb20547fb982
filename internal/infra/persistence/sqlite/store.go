// Package sqlite persists the serialized project tree as a single row in an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	defaultPath   = "weektrack.db"
	defaultBucket = "projects"
)

// Store keeps snapshots in a `state` table keyed by bucket. Each Save
// replaces the bucket's payload inside a transaction.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	bucket string
}

// NewStore opens (or creates) the database at path and ensures the state table exists.
func NewStore(path, bucket string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, bucket: bucket}, nil
}

// Load returns the stored snapshot, or found=false when the bucket has no row yet.
func (s *Store) Load(ctx context.Context) (string, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, s.bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select state: %w", err)
	}
	return string(payload), true, nil
}

// Save upserts the snapshot.
func (s *Store) Save(ctx context.Context, blob string) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, s.bucket, []byte(blob)); err != nil {
		return fmt.Errorf("upsert %s: %w", s.bucket, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Clear deletes the bucket's row. removed is false when there was none.
func (s *Store) Clear(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE bucket = ?`, s.bucket)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", s.bucket, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", s.bucket, err)
	}
	return n > 0, nil
}
