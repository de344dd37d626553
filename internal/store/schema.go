package store

import (
	"database/sql"
	"fmt"
)

// migration is one versioned step of schema evolution, applied in order
// inside a single transaction. Mirrors the in-code migration list pattern
// used for the sqlite-backed stores elsewhere in this dependency tree.
type migration struct {
	version int
	up      []string
}

const currentSchemaVersion = 1

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE titles (
				id INTEGER PRIMARY KEY,
				type INTEGER NOT NULL,
				primary_title TEXT NOT NULL,
				original_title TEXT,
				is_adult INTEGER NOT NULL DEFAULT 0,
				start_year INTEGER,
				end_year INTEGER,
				runtime_minutes INTEGER,
				genres TEXT
			)`,
			`CREATE INDEX idx_titles_type ON titles(type)`,

			`CREATE TABLE akas (
				id INTEGER NOT NULL REFERENCES titles(id),
				ordering INTEGER NOT NULL,
				title TEXT NOT NULL,
				region TEXT,
				language TEXT,
				types TEXT,
				attributes TEXT,
				is_original_title INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (id, ordering)
			)`,

			`CREATE TABLE episodes (
				id INTEGER PRIMARY KEY REFERENCES titles(id),
				parent_id INTEGER NOT NULL REFERENCES titles(id),
				season_number INTEGER NOT NULL,
				episode_number INTEGER NOT NULL
			)`,
			`CREATE INDEX idx_episodes_parent ON episodes(parent_id)`,

			`CREATE TABLE ratings (
				id INTEGER PRIMARY KEY REFERENCES titles(id),
				num_votes INTEGER NOT NULL,
				average_rating REAL NOT NULL
			)`,

			// search_index is rebuilt wholesale by internal/search on every
			// sweep that touches basics or akas; see search.Rebuild.
			`CREATE VIRTUAL TABLE search_index USING fts5(
				text,
				title_id UNINDEXED,
				ordering UNINDEXED,
				is_display UNINDEXED,
				num_votes UNINDEXED,
				kind UNINDEXED,
				tokenize = 'unicode61'
			)`,
		},
	},
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_version: %w", err)
	}

	current := 0
	row := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`)
	_ = row.Scan(&current) // no rows -> current stays 0

	if current >= currentSchemaVersion {
		return nil
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(m migration) error {
	return s.WithTx(func(tx *sql.Tx) error {
		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version)
		return err
	})
}
