package importers_test

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sylv/hubble/internal/imdb"
	"github.com/sylv/hubble/internal/knownids"
	"github.com/sylv/hubble/internal/store"
	"github.com/sylv/hubble/internal/sync/importers"
)

func writeGzipFixture(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for i, line := range lines {
		if i > 0 {
			gz.Write([]byte("\n"))
		}
		gz.Write([]byte(line))
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open("file:" + dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestImportBasicsPopulatesKnownIDsAndNullsOriginalTitle(t *testing.T) {
	dir := t.TempDir()
	path := writeGzipFixture(t, dir, "title.basics.tsv.gz", []string{
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		"tt0000001\tmovie\tStar Wars\tStar Wars\t0\t1977\t\\N\t121\tAction,Adventure",
		"tt0000002\tmovie\tLe Voyage\tLe Voyage dans la Lune\t0\t1902\t\\N\t\\N\tShort,Sci-Fi",
	})
	st := openTestStore(t)
	known := knownids.New()

	result, err := importers.ImportBasics(t.Context(), path, st, known, zerolog.Nop())
	if err != nil {
		t.Fatalf("ImportBasics: %v", err)
	}
	if result.RowsWritten != 2 {
		t.Fatalf("RowsWritten = %d, want 2", result.RowsWritten)
	}
	id1, _ := imdb.ParseID("tt0000001")
	id2, _ := imdb.ParseID("tt0000002")
	if !known.Contains(id1) || !known.Contains(id2) {
		t.Fatal("both ids should be known after basics import")
	}

	titles, err := store.TitlesByIDs(st.DB(), []imdb.ID{id1, id2})
	if err != nil {
		t.Fatal(err)
	}
	if titles[id1].OriginalTitle.Valid {
		t.Fatal("original_title equal to primary_title must be stored absent")
	}
	if !titles[id2].OriginalTitle.Valid || titles[id2].OriginalTitle.String != "Le Voyage dans la Lune" {
		t.Fatalf("expected original_title to survive when it differs, got %+v", titles[id2].OriginalTitle)
	}
}

func TestImportRatingsDropsOrphanRows(t *testing.T) {
	dir := t.TempDir()
	basicsPath := writeGzipFixture(t, dir, "title.basics.tsv.gz", []string{
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		"tt0000001\tmovie\tOne\t\\N\t0\t\\N\t\\N\t\\N\t\\N",
		"tt0000002\tmovie\tTwo\t\\N\t0\t\\N\t\\N\t\\N\t\\N",
		"tt0000003\tmovie\tThree\t\\N\t0\t\\N\t\\N\t\\N\t\\N",
	})
	ratingsPath := writeGzipFixture(t, dir, "title.ratings.tsv.gz", []string{
		"tconst\taverageRating\tnumVotes",
		"tt0000001\t8.0\t100",
		"tt0000099\t5.0\t10",
	})

	st := openTestStore(t)
	known := knownids.New()
	if _, err := importers.ImportBasics(t.Context(), basicsPath, st, known, zerolog.Nop()); err != nil {
		t.Fatalf("ImportBasics: %v", err)
	}

	result, err := importers.ImportRatings(t.Context(), ratingsPath, st, known, zerolog.Nop())
	if err != nil {
		t.Fatalf("ImportRatings: %v", err)
	}
	if result.RowsWritten != 1 || result.RowsDropped != 1 {
		t.Fatalf("got written=%d dropped=%d, want 1/1", result.RowsWritten, result.RowsDropped)
	}

	id1, _ := imdb.ParseID("tt0000001")
	id99, _ := imdb.ParseID("tt0000099")
	if _, ok, _ := store.RatingOf(st.DB(), id1); !ok {
		t.Fatal("rating for known id 1 should exist")
	}
	if _, ok, _ := store.RatingOf(st.DB(), id99); ok {
		t.Fatal("rating for unknown id 99 should have been dropped")
	}
}

func TestImportEpisodesDropsMissingSeasonOrEpisode(t *testing.T) {
	dir := t.TempDir()
	basicsPath := writeGzipFixture(t, dir, "title.basics.tsv.gz", []string{
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		"tt0000001\ttvSeries\tShow\t\\N\t0\t\\N\t\\N\t\\N\t\\N",
		"tt0000002\ttvEpisode\tEp1\t\\N\t0\t\\N\t\\N\t\\N\t\\N",
		"tt0000003\ttvEpisode\tEp2\t\\N\t0\t\\N\t\\N\t\\N\t\\N",
	})
	episodesPath := writeGzipFixture(t, dir, "title.episode.tsv.gz", []string{
		"tconst\tparentTconst\tseasonNumber\tepisodeNumber",
		"tt0000002\ttt0000001\t1\t1",
		"tt0000003\ttt0000001\t\\N\t2",
	})

	st := openTestStore(t)
	known := knownids.New()
	if _, err := importers.ImportBasics(t.Context(), basicsPath, st, known, zerolog.Nop()); err != nil {
		t.Fatalf("ImportBasics: %v", err)
	}

	result, err := importers.ImportEpisodes(t.Context(), episodesPath, st, known, zerolog.Nop())
	if err != nil {
		t.Fatalf("ImportEpisodes: %v", err)
	}
	if result.RowsWritten != 1 || result.RowsDropped != 1 {
		t.Fatalf("got written=%d dropped=%d, want 1/1", result.RowsWritten, result.RowsDropped)
	}

	parent, _ := imdb.ParseID("tt0000001")
	episodes, err := store.EpisodesOf(st.DB(), parent)
	if err != nil {
		t.Fatal(err)
	}
	if len(episodes) != 1 || episodes[0].SeasonNumber != 1 {
		t.Fatalf("unexpected episodes: %+v", episodes)
	}
}

func TestImportAkasDropsUnknownTitleID(t *testing.T) {
	dir := t.TempDir()
	basicsPath := writeGzipFixture(t, dir, "title.basics.tsv.gz", []string{
		"tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres",
		"tt0000001\tmovie\tStar Wars\t\\N\t0\t\\N\t\\N\t\\N\t\\N",
	})
	akasPath := writeGzipFixture(t, dir, "title.akas.tsv.gz", []string{
		"titleId\tordering\ttitle\tregion\tlanguage\ttypes\tattributes\tisOriginalTitle",
		"tt0000001\t5\tGuerre stellari\tIT\t\\N\t\\N\t\\N\t0",
		"tt0000099\t1\tUnknown\t\\N\t\\N\t\\N\t\\N\t0",
	})

	st := openTestStore(t)
	known := knownids.New()
	if _, err := importers.ImportBasics(t.Context(), basicsPath, st, known, zerolog.Nop()); err != nil {
		t.Fatalf("ImportBasics: %v", err)
	}

	result, err := importers.ImportAkas(t.Context(), akasPath, st, known, zerolog.Nop())
	if err != nil {
		t.Fatalf("ImportAkas: %v", err)
	}
	if result.RowsWritten != 1 || result.RowsDropped != 1 {
		t.Fatalf("got written=%d dropped=%d, want 1/1", result.RowsWritten, result.RowsDropped)
	}

	id1, _ := imdb.ParseID("tt0000001")
	akas, err := store.AkasOf(st.DB(), id1, "Star Wars")
	if err != nil {
		t.Fatal(err)
	}
	if len(akas) != 1 || akas[0].Title != "Guerre stellari" {
		t.Fatalf("unexpected akas: %+v", akas)
	}
}
