// Package store wraps the sqlite-backed relational store: schema migrations,
// the bulk upsert paths used by the importer, and the read paths used by the
// query façade. It follows the teacher's single *sql.DB-plus-mutex-free
// pattern (sqlite's own WAL locking serializes writers) rather than an ORM.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the shared, read-mostly handle passed explicitly into the
// orchestrator and the query façade.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at databaseURL and
// applies any pending migrations. databaseURL is a modernc.org/sqlite DSN,
// e.g. "file:/data/hubble.db".
func Open(databaseURL string) (*Store, error) {
	dsn := databaseURL
	if !hasQuery(dsn) {
		dsn += "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=1&_auto_vacuum=incremental"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", databaseURL, err)
	}
	// A small pool avoids sqlite lock contention; the importer holds a
	// single writer connection for the lifetime of a batch.
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

func hasQuery(dsn string) bool {
	for _, c := range dsn {
		if c == '?' {
			return true
		}
	}
	return false
}

// DB returns the underlying *sql.DB for callers (like the search package)
// that need raw query access beyond this package's CRUD surface.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Importers use this so one feed's batch is one
// logical transaction per spec.md §5.
func (s *Store) WithTx(fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// now is overridable by tests that need a deterministic clock; production
// code always uses time.Now.
var now = time.Now
