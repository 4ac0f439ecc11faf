// Package store persists board lists and tasks in sqlite for the dropkit
// demo binary.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the database connection.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens an existing database.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: run 'dropkit init' first")
	}

	conn, err := openConn(path)
	if err != nil {
		return nil, err
	}
	return &Store{conn: conn, path: path}, nil
}

// Initialize creates the database and its schema.
func Initialize(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	conn, err := openConn(path)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

func openConn(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL keeps readers unblocked while writes are serialized
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Busy timeout as fallback protection, matches the write lock timeout
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// NORMAL loses nothing under WAL and skips a sync per write
	conn.Exec("PRAGMA synchronous=NORMAL")

	return conn, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SetMaxOpenConns caps the connection pool. With sqlite's single-writer
// semantics a long-running TUI typically wants 1.
func (s *Store) SetMaxOpenConns(n int) {
	s.conn.SetMaxOpenConns(n)
}

// withWriteLock executes fn while holding an exclusive cross-process write
// lock next to the database file.
func (s *Store) withWriteLock(fn func() error) error {
	locker := newWriteLocker(s.path)
	if err := locker.acquire(defaultLockTimeout); err != nil {
		return err
	}
	defer locker.release()
	return fn()
}
