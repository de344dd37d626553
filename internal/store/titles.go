package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sylv/hubble/internal/imdb"
)

// Title mirrors the `titles` row. OriginalTitle is absent (empty, present
// false) whenever it equals PrimaryTitle, per spec.md §3.
type Title struct {
	ID             imdb.ID
	Kind           imdb.Kind
	PrimaryTitle   string
	OriginalTitle  sql.NullString
	IsAdult        bool
	StartYear      sql.NullInt64
	EndYear        sql.NullInt64
	RuntimeMinutes sql.NullInt64
	Genres         []string
}

var titleColumns = []string{
	"id", "type", "primary_title", "original_title", "is_adult",
	"start_year", "end_year", "runtime_minutes", "genres",
}

// UpsertTitles bulk-writes rows in a single statement. ON CONFLICT(id) DO
// UPDATE replaces every column, matching the upsert semantics of §3-I2.
func UpsertTitles(tx *sql.Tx, rows []Title) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := buildUpsert("titles", titleColumns, []string{"id"}, len(rows))
	args := make([]any, 0, len(rows)*len(titleColumns))
	for _, r := range rows {
		var genres any
		if len(r.Genres) > 0 {
			genres = strings.Join(r.Genres, ",")
		}
		args = append(args,
			r.ID.Uint32(), int(r.Kind), r.PrimaryTitle, nullStringArg(r.OriginalTitle), r.IsAdult,
			nullIntArg(r.StartYear), nullIntArg(r.EndYear), nullIntArg(r.RuntimeMinutes), genres,
		)
	}
	if _, err := tx.Exec(stmt, args...); err != nil {
		return fmt.Errorf("upsert titles: %w", err)
	}
	return nil
}

func nullStringArg(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func nullIntArg(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func scanTitle(row interface {
	Scan(dest ...any) error
}) (Title, error) {
	var t Title
	var id int64
	var kind int64
	var genres sql.NullString
	err := row.Scan(&id, &kind, &t.PrimaryTitle, &t.OriginalTitle, &t.IsAdult, &t.StartYear, &t.EndYear, &t.RuntimeMinutes, &genres)
	if err != nil {
		return Title{}, err
	}
	t.ID = imdb.ID(uint32(id))
	k, err := imdb.KindFromCode(kind)
	if err != nil {
		return Title{}, err
	}
	t.Kind = k
	if genres.Valid && genres.String != "" {
		t.Genres = strings.Split(genres.String, ",")
	}
	return t, nil
}

// TitlesByIDs is the batched id lookup used by the query façade's loader: a
// single "WHERE id IN (...)" query returning a map missing entries for
// unknown ids (spec.md §4.7).
func TitlesByIDs(db *sql.DB, ids []imdb.ID) (map[imdb.ID]Title, error) {
	result := make(map[imdb.ID]Title, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	query := `SELECT id, type, primary_title, original_title, is_adult, start_year, end_year, runtime_minutes, genres
		FROM titles WHERE id IN (` + placeholders + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.Uint32()
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("titles by ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, fmt.Errorf("titles by ids: scan: %w", err)
		}
		result[t.ID] = t
	}
	return result, rows.Err()
}
