package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sylv/hubble/internal/imdb"
)

// Aka mirrors the `akas` row, composite-keyed by (ID, Ordering).
type Aka struct {
	ID              imdb.ID
	Ordering        int
	Title           string
	Region          sql.NullString
	Language        sql.NullString
	Types           []string
	Attributes      []string
	IsOriginalTitle bool
}

var akaColumns = []string{
	"id", "ordering", "title", "region", "language", "types", "attributes", "is_original_title",
}

// UpsertAkas bulk-writes rows keyed on (id, ordering).
func UpsertAkas(tx *sql.Tx, rows []Aka) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := buildUpsert("akas", akaColumns, []string{"id", "ordering"}, len(rows))
	args := make([]any, 0, len(rows)*len(akaColumns))
	for _, r := range rows {
		var types, attrs any
		if len(r.Types) > 0 {
			types = strings.Join(r.Types, ",")
		}
		if len(r.Attributes) > 0 {
			attrs = strings.Join(r.Attributes, ",")
		}
		args = append(args,
			r.ID.Uint32(), r.Ordering, r.Title, nullStringArg(r.Region), nullStringArg(r.Language),
			types, attrs, r.IsOriginalTitle,
		)
	}
	if _, err := tx.Exec(stmt, args...); err != nil {
		return fmt.Errorf("upsert akas: %w", err)
	}
	return nil
}

// AkasOf returns every alternate title for id, excluding the row whose text
// equals the title's primary title (spec.md §4.7: "akas_of excludes the
// primary title from results").
func AkasOf(db *sql.DB, id imdb.ID, primaryTitle string) ([]Aka, error) {
	rows, err := db.Query(
		`SELECT id, ordering, title, region, language, types, attributes, is_original_title
		 FROM akas WHERE id = ? AND title != ? ORDER BY ordering`,
		id.Uint32(), primaryTitle,
	)
	if err != nil {
		return nil, fmt.Errorf("akas of %s: %w", id, err)
	}
	defer rows.Close()

	var out []Aka
	for rows.Next() {
		var a Aka
		var idVal int64
		var types, attrs sql.NullString
		if err := rows.Scan(&idVal, &a.Ordering, &a.Title, &a.Region, &a.Language, &types, &attrs, &a.IsOriginalTitle); err != nil {
			return nil, fmt.Errorf("akas of %s: scan: %w", id, err)
		}
		a.ID = imdb.ID(uint32(idVal))
		if types.Valid && types.String != "" {
			a.Types = strings.Split(types.String, ",")
		}
		if attrs.Valid && attrs.String != "" {
			a.Attributes = strings.Split(attrs.String, ",")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
