// Package search implements the search-index builder (C6): the relational
// full-text index is rebuilt from the store's titles/akas/ratings tables in
// a single DELETE+INSERT pass, as spec.md §4.6 describes for the
// relational-FTS variant.
package search

import (
	"database/sql"
	"fmt"
)

// rebuildSQL computes the deduplicated (text, title_id) union described in
// spec.md §4.6: primary titles at priority 1, akas at priority 2, keeping
// the smallest-priority row per pair and breaking ties by ordering.
// is_display is derived per §3-I3: true whenever the indexed text equals
// either of the title's primary or original title, regardless of which
// source row produced it.
const rebuildSQL = `
INSERT INTO search_index (text, title_id, ordering, is_display, num_votes, kind)
SELECT text, title_id, ordering,
       CASE WHEN text = primary_title OR text = original_title THEN 1 ELSE 0 END,
       num_votes, kind
FROM (
	SELECT text, title_id, ordering, priority, primary_title, original_title, num_votes, kind,
	       ROW_NUMBER() OVER (PARTITION BY text, title_id ORDER BY priority ASC, ordering ASC) AS rn
	FROM (
		SELECT t.primary_title AS text, t.id AS title_id, 0 AS ordering, 1 AS priority,
		       t.primary_title AS primary_title, t.original_title AS original_title,
		       COALESCE(r.num_votes, 0) AS num_votes, t.type AS kind
		FROM titles t
		LEFT JOIN ratings r ON r.id = t.id
		WHERE t.primary_title IS NOT NULL AND t.primary_title != ''

		UNION ALL

		SELECT a.title AS text, a.id AS title_id, a.ordering AS ordering, 2 AS priority,
		       t.primary_title AS primary_title, t.original_title AS original_title,
		       COALESCE(r.num_votes, 0) AS num_votes, t.type AS kind
		FROM akas a
		JOIN titles t ON t.id = a.id
		LEFT JOIN ratings r ON r.id = a.id
		WHERE a.title IS NOT NULL AND a.title != ''
	)
)
WHERE rn = 1
`

// Rebuild drops and repopulates the search_index virtual table. It is
// invoked by the orchestrator once per sweep, only when needs_search_update
// was set (spec.md §4.5 step 4).
func Rebuild(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("search: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM search_index`); err != nil {
		return fmt.Errorf("search: clear index: %w", err)
	}
	if _, err := tx.Exec(rebuildSQL); err != nil {
		return fmt.Errorf("search: rebuild: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("search: commit: %w", err)
	}
	return nil
}
