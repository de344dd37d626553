package importers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sylv/hubble/internal/imdb"
	"github.com/sylv/hubble/internal/imdb/nullable"
	"github.com/sylv/hubble/internal/knownids"
	"github.com/sylv/hubble/internal/store"
)

// episodesBindCount matches title.episode.tsv.gz's header:
// tconst, parentTconst, seasonNumber, episodeNumber
const episodesBindCount = 4

// ImportEpisodes streams the episodes feed, dropping rows whose id or
// parent id is unknown, and rows missing a season or episode number
// (spec.md §4.4 step 3b, 3c).
func ImportEpisodes(ctx context.Context, path string, st *store.Store, known *knownids.Set, log zerolog.Logger) (Result, error) {
	src, err := openTSVSource(path)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	batchSize := BatchSize(episodesBindCount)
	progress := newThroughputLogger(log, "episodes")
	var result Result

	batch := make([]store.Episode, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := st.WithTx(func(tx *sql.Tx) error {
			return store.UpsertEpisodes(tx, batch)
		}); err != nil {
			return err
		}
		progress.add(int64(len(batch)))
		result.RowsWritten += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		fields, ok := src.next()
		if !ok {
			break
		}
		row, complete, err := decodeEpisodeRow(fields)
		if err != nil {
			log.Warn().Err(err).Str("feed", "episodes").Msg("dropping row")
			result.RowsDropped++
			continue
		}
		if !complete {
			result.RowsDropped++
			continue
		}
		if !known.Contains(row.ID) || !known.Contains(row.ParentID) {
			result.RowsDropped++
			continue
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := src.err(); err != nil {
		return result, err
	}
	if err := flush(); err != nil {
		return result, err
	}
	return result, nil
}

// decodeEpisodeRow returns complete=false (not an error) when the season or
// episode number is absent, per spec.md §3 "rows with either number absent
// are discarded at import".
func decodeEpisodeRow(fields []string) (store.Episode, bool, error) {
	idRaw, err := field(fields, 0)
	if err != nil {
		return store.Episode{}, false, err
	}
	id, err := imdb.ParseID(idRaw)
	if err != nil {
		return store.Episode{}, false, fmt.Errorf("id: %w", err)
	}

	parentRaw, err := field(fields, 1)
	if err != nil {
		return store.Episode{}, false, err
	}
	parent, err := imdb.ParseID(parentRaw)
	if err != nil {
		return store.Episode{}, false, fmt.Errorf("parent_id: %w", err)
	}

	seasonRaw, err := field(fields, 2)
	if err != nil {
		return store.Episode{}, false, err
	}
	season, seasonPresent, err := nullable.Int(seasonRaw)
	if err != nil {
		return store.Episode{}, false, fmt.Errorf("season_number: %w", err)
	}

	episodeRaw, err := field(fields, 3)
	if err != nil {
		return store.Episode{}, false, err
	}
	episode, episodePresent, err := nullable.Int(episodeRaw)
	if err != nil {
		return store.Episode{}, false, fmt.Errorf("episode_number: %w", err)
	}

	if !seasonPresent || !episodePresent {
		return store.Episode{}, false, nil
	}

	return store.Episode{
		ID:            id,
		ParentID:      parent,
		SeasonNumber:  season,
		EpisodeNumber: episode,
	}, true, nil
}
