package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sylv/hubble/internal/imdb"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hubble.db")
	s, err := Open("file:" + path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hubble.db")
	s1, err := Open("file:" + path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s1.Close()

	s2, err := Open("file:" + path)
	if err != nil {
		t.Fatalf("second Open (re-migrate): %v", err)
	}
	defer s2.Close()
}

func TestUpsertTitlesReplaceOnReappearance(t *testing.T) {
	s := openTestStore(t)
	row := Title{ID: 1, Kind: imdb.KindMovie, PrimaryTitle: "Star Wars"}
	if err := s.WithTx(func(tx *sql.Tx) error { return UpsertTitles(tx, []Title{row}) }); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	updated := Title{ID: 1, Kind: imdb.KindMovie, PrimaryTitle: "Star Wars (Special Edition)"}
	if err := s.WithTx(func(tx *sql.Tx) error { return UpsertTitles(tx, []Title{updated}) }); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := TitlesByIDs(s.DB(), []imdb.ID{1})
	if err != nil {
		t.Fatalf("TitlesByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one Title row for id 1, got %d", len(got))
	}
	if got[1].PrimaryTitle != "Star Wars (Special Edition)" {
		t.Fatalf("primary_title not replaced: %q", got[1].PrimaryTitle)
	}
}

func TestTitlesByIDsMissingEntriesOmitted(t *testing.T) {
	s := openTestStore(t)
	row := Title{ID: 1, Kind: imdb.KindMovie, PrimaryTitle: "Known"}
	if err := s.WithTx(func(tx *sql.Tx) error { return UpsertTitles(tx, []Title{row}) }); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := TitlesByIDs(s.DB(), []imdb.ID{1, 2, 3})
	if err != nil {
		t.Fatalf("TitlesByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only id 1 to resolve, got %d entries", len(got))
	}
	if _, ok := got[2]; ok {
		t.Fatal("unknown id 2 should be absent from the result map, not an error")
	}
}

func TestAkasOfExcludesPrimaryTitle(t *testing.T) {
	s := openTestStore(t)
	title := Title{ID: 1, Kind: imdb.KindMovie, PrimaryTitle: "Star Wars"}
	if err := s.WithTx(func(tx *sql.Tx) error { return UpsertTitles(tx, []Title{title}) }); err != nil {
		t.Fatalf("upsert title: %v", err)
	}
	akas := []Aka{
		{ID: 1, Ordering: 1, Title: "Star Wars"},
		{ID: 1, Ordering: 5, Title: "Guerre stellari"},
	}
	if err := s.WithTx(func(tx *sql.Tx) error { return UpsertAkas(tx, akas) }); err != nil {
		t.Fatalf("upsert akas: %v", err)
	}

	got, err := AkasOf(s.DB(), 1, "Star Wars")
	if err != nil {
		t.Fatalf("AkasOf: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Guerre stellari" {
		t.Fatalf("AkasOf should exclude the primary title, got %+v", got)
	}
}

func TestEpisodesOfOrdering(t *testing.T) {
	s := openTestStore(t)
	titles := []Title{
		{ID: 1, Kind: imdb.KindTVSeries, PrimaryTitle: "Show"},
		{ID: 2, Kind: imdb.KindTVEpisode, PrimaryTitle: "Episode One"},
		{ID: 3, Kind: imdb.KindTVEpisode, PrimaryTitle: "Episode Two"},
	}
	if err := s.WithTx(func(tx *sql.Tx) error { return UpsertTitles(tx, titles) }); err != nil {
		t.Fatalf("upsert titles: %v", err)
	}
	rows := []Episode{
		{ID: 3, ParentID: 1, SeasonNumber: 1, EpisodeNumber: 2},
		{ID: 2, ParentID: 1, SeasonNumber: 1, EpisodeNumber: 1},
	}
	if err := s.WithTx(func(tx *sql.Tx) error { return UpsertEpisodes(tx, rows) }); err != nil {
		t.Fatalf("upsert episodes: %v", err)
	}

	got, err := EpisodesOf(s.DB(), 1)
	if err != nil {
		t.Fatalf("EpisodesOf: %v", err)
	}
	if len(got) != 2 || got[0].EpisodeNumber != 1 || got[1].EpisodeNumber != 2 {
		t.Fatalf("EpisodesOf ordering: %+v", got)
	}
}

func TestRatingOfUnknown(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := RatingOf(s.DB(), 999)
	if err != nil {
		t.Fatalf("RatingOf: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for unknown rating id")
	}
}
