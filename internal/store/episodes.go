package store

import (
	"database/sql"
	"fmt"

	"github.com/sylv/hubble/internal/imdb"
)

// Episode mirrors the `episodes` row.
type Episode struct {
	ID            imdb.ID
	ParentID      imdb.ID
	SeasonNumber  int
	EpisodeNumber int
}

var episodeColumns = []string{"id", "parent_id", "season_number", "episode_number"}

// UpsertEpisodes bulk-writes rows keyed on id. Rows with an absent season or
// episode number must already have been filtered out by the caller
// (spec.md §4.4 step 3c) — this function has no null columns to accept.
func UpsertEpisodes(tx *sql.Tx, rows []Episode) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := buildUpsert("episodes", episodeColumns, []string{"id"}, len(rows))
	args := make([]any, 0, len(rows)*len(episodeColumns))
	for _, r := range rows {
		args = append(args, r.ID.Uint32(), r.ParentID.Uint32(), r.SeasonNumber, r.EpisodeNumber)
	}
	if _, err := tx.Exec(stmt, args...); err != nil {
		return fmt.Errorf("upsert episodes: %w", err)
	}
	return nil
}

// EpisodesOf returns every episode whose parent is parentID, ordered for
// display (season then episode number).
func EpisodesOf(db *sql.DB, parentID imdb.ID) ([]Episode, error) {
	rows, err := db.Query(
		`SELECT id, parent_id, season_number, episode_number FROM episodes
		 WHERE parent_id = ? ORDER BY season_number, episode_number`,
		parentID.Uint32(),
	)
	if err != nil {
		return nil, fmt.Errorf("episodes of %s: %w", parentID, err)
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		var e Episode
		var id, parent int64
		if err := rows.Scan(&id, &parent, &e.SeasonNumber, &e.EpisodeNumber); err != nil {
			return nil, fmt.Errorf("episodes of %s: scan: %w", parentID, err)
		}
		e.ID = imdb.ID(uint32(id))
		e.ParentID = imdb.ID(uint32(parent))
		out = append(out, e)
	}
	return out, rows.Err()
}
