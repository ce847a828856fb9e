// Package store provides SQLite persistence for SignGen.
//
// Two tables live here: a flat key/value table holding serialized records
// (the endpoint configuration is one of them) and a per-word generation
// history used for suggestions and the CLI.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Values of WordRecord.LastStatus.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// WordRecord is one row of generation history.
type WordRecord struct {
	Word        string
	LastStatus  string // StatusSucceeded or StatusFailed
	LastError   string
	Generations int
	LastUsed    time.Time
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS words (
		word TEXT PRIMARY KEY,
		last_status TEXT NOT NULL,
		last_error TEXT NOT NULL DEFAULT '',
		generations INTEGER NOT NULL DEFAULT 0,
		last_used DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_words_last_used ON words(last_used DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Get returns the value stored under key. ok is false when the key is absent.
// Thread-safe: acquires read lock.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Put overwrites the value stored under key.
// Thread-safe: acquires write lock.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// RecordGeneration upserts the history row for word.
// genErr nil records a success.
// Thread-safe: acquires write lock.
func (s *Store) RecordGeneration(word string, genErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, msg := StatusSucceeded, ""
	if genErr != nil {
		status, msg = StatusFailed, genErr.Error()
	}

	_, err := s.db.Exec(`
		INSERT INTO words (word, last_status, last_error, generations, last_used)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(word) DO UPDATE SET
			last_status = excluded.last_status,
			last_error = excluded.last_error,
			generations = words.generations + 1,
			last_used = excluded.last_used
	`, word, status, msg, time.Now())
	if err != nil {
		return fmt.Errorf("record generation for %q: %w", word, err)
	}
	return nil
}

// RecentWords returns up to limit history rows, most recently used first.
// Thread-safe: acquires read lock.
func (s *Store) RecentWords(limit int) ([]WordRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT word, last_status, last_error, generations, last_used
		FROM words
		ORDER BY last_used DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []WordRecord
	for rows.Next() {
		var r WordRecord
		if err := rows.Scan(&r.Word, &r.LastStatus, &r.LastError, &r.Generations, &r.LastUsed); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
