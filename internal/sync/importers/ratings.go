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

// ratingsBindCount matches title.ratings.tsv.gz's header:
// tconst, averageRating, numVotes
const ratingsBindCount = 3

// ImportRatings streams the ratings feed, dropping rows whose id is unknown.
func ImportRatings(ctx context.Context, path string, st *store.Store, known *knownids.Set, log zerolog.Logger) (Result, error) {
	src, err := openTSVSource(path)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	batchSize := BatchSize(ratingsBindCount)
	progress := newThroughputLogger(log, "ratings")
	var result Result

	batch := make([]store.Rating, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := st.WithTx(func(tx *sql.Tx) error {
			return store.UpsertRatings(tx, batch)
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
		row, err := decodeRatingRow(fields)
		if err != nil {
			log.Warn().Err(err).Str("feed", "ratings").Msg("dropping row")
			result.RowsDropped++
			continue
		}
		if !known.Contains(row.ID) {
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

func decodeRatingRow(fields []string) (store.Rating, error) {
	idRaw, err := field(fields, 0)
	if err != nil {
		return store.Rating{}, err
	}
	id, err := imdb.ParseID(idRaw)
	if err != nil {
		return store.Rating{}, fmt.Errorf("id: %w", err)
	}

	avgRaw, err := field(fields, 1)
	if err != nil {
		return store.Rating{}, err
	}
	avg, _, err := nullable.Float32(avgRaw)
	if err != nil {
		return store.Rating{}, fmt.Errorf("average_rating: %w", err)
	}

	votesRaw, err := field(fields, 2)
	if err != nil {
		return store.Rating{}, err
	}
	votes, _, err := nullable.Int(votesRaw)
	if err != nil {
		return store.Rating{}, fmt.Errorf("num_votes: %w", err)
	}

	return store.Rating{
		ID:            id,
		NumVotes:      int64(votes),
		AverageRating: avg,
	}, nil
}
