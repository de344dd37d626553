// Package query implements the query façade (C7): ranked title search,
// direct id lookups, and the episodes/ratings/akas accessors described in
// spec.md §4.7.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sylv/hubble/internal/imdb"
	"github.com/sylv/hubble/internal/store"
)

// ErrMissingInput is returned by GetTitles when neither a query string nor
// an id list is supplied (the QueryMissingInput error kind of spec.md §7).
var ErrMissingInput = errors.New("query: either query text or ids must be supplied")

// searchableKinds is the relational-FTS variant's kind filter (spec.md
// §4.7): movie, short, tvMiniSeries, tvMovie, tvSeries, videoGame.
var searchableKinds = []imdb.Kind{
	imdb.KindMovie, imdb.KindShort, imdb.KindTVMiniSeries,
	imdb.KindTVMovie, imdb.KindTVSeries, imdb.KindVideoGame,
}

// Facade is the read-only query surface, sharing the store's *sql.DB and a
// Loader across concurrent callers (spec.md §9 "global state": passed in
// explicitly, not a singleton).
type Facade struct {
	db     *sql.DB
	loader *Loader
}

func NewFacade(db *sql.DB) *Facade {
	return &Facade{db: db, loader: NewLoader(db)}
}

// TitleWithRank pairs a Title with its search score; Rank is nil when the
// title was returned from an explicit id list rather than a text query.
type TitleWithRank struct {
	Title store.Title
	Rank  *float64
}

// GetTitle resolves a single id through the batched loader.
func (f *Facade) GetTitle(ctx context.Context, id imdb.ID) (store.Title, bool, error) {
	return f.loader.Load(ctx, id)
}

// GetTitles implements spec.md §4.7's combined query/ids lookup. When query
// is non-empty it ranks via the search index; otherwise ids are resolved
// directly and returned in the order given, each with Rank absent.
func (f *Facade) GetTitles(ctx context.Context, queryText string, ids []imdb.ID, limit int) ([]TitleWithRank, error) {
	queryText = strings.TrimSpace(queryText)
	if queryText == "" && len(ids) == 0 {
		return nil, ErrMissingInput
	}

	if queryText != "" {
		return f.searchTitles(queryText, limit)
	}
	return f.titlesByExplicitIDs(ids)
}

func (f *Facade) titlesByExplicitIDs(ids []imdb.ID) ([]TitleWithRank, error) {
	found, err := f.loader.LoadMany(ids)
	if err != nil {
		return nil, fmt.Errorf("query: load ids: %w", err)
	}
	out := make([]TitleWithRank, 0, len(ids))
	for _, id := range ids {
		if t, ok := found[id]; ok {
			out = append(out, TitleWithRank{Title: t})
		}
	}
	return out, nil
}

func (f *Facade) searchTitles(queryText string, limit int) ([]TitleWithRank, error) {
	candidates, err := f.rankedCandidates(queryText)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ids := make([]imdb.ID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.titleID
	}
	titles, err := f.loader.LoadMany(ids)
	if err != nil {
		return nil, fmt.Errorf("query: resolve candidates: %w", err)
	}

	out := make([]TitleWithRank, 0, len(candidates))
	for _, c := range candidates {
		t, ok := titles[c.titleID]
		if !ok {
			continue
		}
		score := c.score
		out = append(out, TitleWithRank{Title: t, Rank: &score})
	}
	return out, nil
}

// EpisodesOf, RatingOf, AkasOf are direct store lookups per spec.md §4.7.
func (f *Facade) EpisodesOf(parentID imdb.ID) ([]store.Episode, error) {
	return store.EpisodesOf(f.db, parentID)
}

func (f *Facade) RatingOf(id imdb.ID) (store.Rating, bool, error) {
	return store.RatingOf(f.db, id)
}

func (f *Facade) AkasOf(id imdb.ID, primaryTitle string) ([]store.Aka, error) {
	return store.AkasOf(f.db, id, primaryTitle)
}

type candidate struct {
	titleID imdb.ID
	score   float64
}

// rankedCandidates issues the FTS5 MATCH query and scores each matched doc
// per spec.md §4.7's relational-FTS formula, keeping only the best-scoring
// doc per title id.
func (f *Facade) rankedCandidates(queryText string) ([]candidate, error) {
	sanitized := sanitizeMatchQuery(queryText)
	if sanitized == "" {
		return nil, nil
	}

	placeholders := make([]string, len(searchableKinds))
	args := make([]any, 0, len(searchableKinds)+1)
	args = append(args, sanitized)
	for i, k := range searchableKinds {
		placeholders[i] = "?"
		args = append(args, int(k))
	}
	query := fmt.Sprintf(`
		SELECT title_id, is_display, num_votes, bm25(search_index) AS bm
		FROM search_index
		WHERE search_index MATCH ? AND kind IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := f.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: search: %w", err)
	}
	defer rows.Close()

	best := make(map[imdb.ID]float64)
	for rows.Next() {
		var titleID uint32
		var isDisplay bool
		var numVotes int64
		var bm float64
		if err := rows.Scan(&titleID, &isDisplay, &numVotes, &bm); err != nil {
			return nil, fmt.Errorf("query: scan: %w", err)
		}
		score := -bm + votesBucket(numVotes) + displayBias(isDisplay)
		id := imdb.ID(titleID)
		if cur, ok := best[id]; !ok || score > cur {
			best[id] = score
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: rows: %w", err)
	}

	out := make([]candidate, 0, len(best))
	for id, score := range best {
		out = append(out, candidate{titleID: id, score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out, nil
}

// sanitizeMatchQuery strips ':' before handing text to FTS5 MATCH, per
// spec.md §4.7 (':' has special meaning to sqlite's FTS5 query syntax).
func sanitizeMatchQuery(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, ":", ""))
}

func votesBucket(numVotes int64) float64 {
	switch {
	case numVotes < 10:
		return 1.0
	case numVotes < 100:
		return 1.5
	case numVotes < 1000:
		return 2.0
	default:
		return 2.5
	}
}

func displayBias(isDisplay bool) float64 {
	if isDisplay {
		return 1.0
	}
	return -5.0
}
