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

// akasBindCount matches title.akas.tsv.gz's header:
// titleId, ordering, title, region, language, types, attributes, isOriginalTitle
const akasBindCount = 8

// ImportAkas streams the akas feed, dropping rows whose title id is absent
// from known (spec.md §4.4 step 3b). known must already be complete — the
// caller is responsible for waiting on the anchor barrier first.
func ImportAkas(ctx context.Context, path string, st *store.Store, known *knownids.Set, log zerolog.Logger) (Result, error) {
	src, err := openTSVSource(path)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	batchSize := BatchSize(akasBindCount)
	progress := newThroughputLogger(log, "akas")
	var result Result

	batch := make([]store.Aka, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := st.WithTx(func(tx *sql.Tx) error {
			return store.UpsertAkas(tx, batch)
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
		row, err := decodeAkaRow(fields)
		if err != nil {
			log.Warn().Err(err).Str("feed", "akas").Msg("dropping row")
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

func decodeAkaRow(fields []string) (store.Aka, error) {
	idRaw, err := field(fields, 0)
	if err != nil {
		return store.Aka{}, err
	}
	id, err := imdb.ParseID(idRaw)
	if err != nil {
		return store.Aka{}, fmt.Errorf("id: %w", err)
	}

	orderingRaw, err := field(fields, 1)
	if err != nil {
		return store.Aka{}, err
	}
	ordering, _, err := nullable.Int(orderingRaw)
	if err != nil {
		return store.Aka{}, fmt.Errorf("ordering: %w", err)
	}

	titleRaw, err := field(fields, 2)
	if err != nil {
		return store.Aka{}, err
	}
	title, _ := nullable.String(titleRaw)

	regionRaw, err := field(fields, 3)
	if err != nil {
		return store.Aka{}, err
	}
	region, regionPresent := nullable.String(regionRaw)

	languageRaw, err := field(fields, 4)
	if err != nil {
		return store.Aka{}, err
	}
	language, languagePresent := nullable.String(languageRaw)

	typesRaw, err := field(fields, 5)
	if err != nil {
		return store.Aka{}, err
	}
	types, _ := nullable.String(typesRaw)

	attrsRaw, err := field(fields, 6)
	if err != nil {
		return store.Aka{}, err
	}
	attrs, _ := nullable.String(attrsRaw)

	isOriginalRaw, err := field(fields, 7)
	if err != nil {
		return store.Aka{}, err
	}
	isOriginal, err := nullable.Bool(isOriginalRaw)
	if err != nil {
		return store.Aka{}, fmt.Errorf("is_original_title: %w", err)
	}

	a := store.Aka{
		ID:              id,
		Ordering:        ordering,
		Title:           title,
		Types:           splitCSV(types),
		Attributes:      splitCSV(attrs),
		IsOriginalTitle: isOriginal,
	}
	if regionPresent {
		a.Region.Valid = true
		a.Region.String = region
	}
	if languagePresent {
		a.Language.Valid = true
		a.Language.String = language
	}
	return a, nil
}
