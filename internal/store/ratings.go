package store

import (
	"database/sql"
	"fmt"

	"github.com/sylv/hubble/internal/imdb"
)

// Rating mirrors the `ratings` row.
type Rating struct {
	ID            imdb.ID
	NumVotes      int64
	AverageRating float32
}

var ratingColumns = []string{"id", "num_votes", "average_rating"}

// UpsertRatings bulk-writes rows keyed on id.
func UpsertRatings(tx *sql.Tx, rows []Rating) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := buildUpsert("ratings", ratingColumns, []string{"id"}, len(rows))
	args := make([]any, 0, len(rows)*len(ratingColumns))
	for _, r := range rows {
		args = append(args, r.ID.Uint32(), r.NumVotes, r.AverageRating)
	}
	if _, err := tx.Exec(stmt, args...); err != nil {
		return fmt.Errorf("upsert ratings: %w", err)
	}
	return nil
}

// RatingOf returns the rating for id, or ok=false if none exists.
func RatingOf(db *sql.DB, id imdb.ID) (Rating, bool, error) {
	var r Rating
	var idVal int64
	err := db.QueryRow(`SELECT id, num_votes, average_rating FROM ratings WHERE id = ?`, id.Uint32()).
		Scan(&idVal, &r.NumVotes, &r.AverageRating)
	if err == sql.ErrNoRows {
		return Rating{}, false, nil
	}
	if err != nil {
		return Rating{}, false, fmt.Errorf("rating of %s: %w", id, err)
	}
	r.ID = imdb.ID(uint32(idVal))
	return r, true, nil
}
