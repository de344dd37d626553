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

// basicsBindCount matches title.basics.tsv.gz's header:
// tconst, titleType, primaryTitle, originalTitle, isAdult, startYear, endYear, runtimeMinutes, genres
const basicsBindCount = 9

// ImportBasics streams the anchor feed, populating known into the
// process-local known-id set as it goes (spec.md §4.4 step 3d). Callers must
// not import any dependent feed concurrently with this call, since known is
// mutated without locking.
func ImportBasics(ctx context.Context, path string, st *store.Store, known *knownids.Set, log zerolog.Logger) (Result, error) {
	src, err := openTSVSource(path)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	batchSize := BatchSize(basicsBindCount)
	progress := newThroughputLogger(log, "basics")
	var result Result

	batch := make([]store.Title, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := st.WithTx(func(tx *sql.Tx) error {
			return store.UpsertTitles(tx, batch)
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
		row, err := decodeBasicsRow(fields)
		if err != nil {
			log.Warn().Err(err).Str("feed", "basics").Msg("dropping row")
			result.RowsDropped++
			continue
		}
		known.Add(row.ID)
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

func decodeBasicsRow(fields []string) (store.Title, error) {
	idRaw, err := field(fields, 0)
	if err != nil {
		return store.Title{}, err
	}
	id, err := imdb.ParseID(idRaw)
	if err != nil {
		return store.Title{}, fmt.Errorf("id: %w", err)
	}

	kindRaw, err := field(fields, 1)
	if err != nil {
		return store.Title{}, err
	}
	kind, err := imdb.ParseKind(kindRaw)
	if err != nil {
		return store.Title{}, fmt.Errorf("kind: %w", err)
	}

	primaryRaw, err := field(fields, 2)
	if err != nil {
		return store.Title{}, err
	}
	primary, _ := nullable.String(primaryRaw)

	originalRaw, err := field(fields, 3)
	if err != nil {
		return store.Title{}, err
	}
	original, originalPresent := nullable.String(originalRaw)
	if originalPresent && original == primary {
		originalPresent = false
	}

	isAdultRaw, err := field(fields, 4)
	if err != nil {
		return store.Title{}, err
	}
	isAdult, err := nullable.Bool(isAdultRaw)
	if err != nil {
		return store.Title{}, fmt.Errorf("is_adult: %w", err)
	}

	startRaw, err := field(fields, 5)
	if err != nil {
		return store.Title{}, err
	}
	startYear, startPresent, err := nullable.Int(startRaw)
	if err != nil {
		return store.Title{}, fmt.Errorf("start_year: %w", err)
	}

	endRaw, err := field(fields, 6)
	if err != nil {
		return store.Title{}, err
	}
	endYear, endPresent, err := nullable.Int(endRaw)
	if err != nil {
		return store.Title{}, fmt.Errorf("end_year: %w", err)
	}

	runtimeRaw, err := field(fields, 7)
	if err != nil {
		return store.Title{}, err
	}
	runtime, runtimePresent, err := nullable.Int(runtimeRaw)
	if err != nil {
		return store.Title{}, fmt.Errorf("runtime_minutes: %w", err)
	}

	genresRaw, err := field(fields, 8)
	if err != nil {
		return store.Title{}, err
	}
	genresStr, genresPresent := nullable.String(genresRaw)

	t := store.Title{
		ID:           id,
		Kind:         kind,
		PrimaryTitle: primary,
		IsAdult:      isAdult,
	}
	if originalPresent {
		t.OriginalTitle.Valid = true
		t.OriginalTitle.String = original
	}
	if startPresent {
		t.StartYear.Valid = true
		t.StartYear.Int64 = int64(startYear)
	}
	if endPresent {
		t.EndYear.Valid = true
		t.EndYear.Int64 = int64(endYear)
	}
	if runtimePresent {
		t.RuntimeMinutes.Valid = true
		t.RuntimeMinutes.Int64 = int64(runtime)
	}
	if genresPresent {
		t.Genres = splitCSV(genresStr)
	}
	return t, nil
}
