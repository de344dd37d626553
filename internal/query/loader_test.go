package query_test

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sylv/hubble/internal/imdb"
	"github.com/sylv/hubble/internal/query"
	"github.com/sylv/hubble/internal/store"
)

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

func TestLoaderCoalescesConcurrentLoads(t *testing.T) {
	st := openTestStore(t)
	if err := st.WithTx(func(tx *sql.Tx) error {
		return store.UpsertTitles(tx, []store.Title{
			{ID: 1, PrimaryTitle: "Star Wars"},
			{ID: 2, PrimaryTitle: "Alien"},
			{ID: 3, PrimaryTitle: "The Thing"},
		})
	}); err != nil {
		t.Fatal(err)
	}

	loader := query.NewLoader(st.DB())
	var wg sync.WaitGroup
	results := make([]store.Title, 3)
	founds := make([]bool, 3)
	for i, id := range []imdb.ID{1, 2, 3} {
		wg.Add(1)
		go func(i int, id imdb.ID) {
			defer wg.Done()
			title, found, err := loader.Load(t.Context(), id)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = title
			founds[i] = found
		}(i, id)
	}
	wg.Wait()

	for i, want := range []string{"Star Wars", "Alien", "The Thing"} {
		if !founds[i] || results[i].PrimaryTitle != want {
			t.Fatalf("result[%d] = %+v found=%v, want %q", i, results[i], founds[i], want)
		}
	}
}

func TestLoaderMissingIDNotFound(t *testing.T) {
	st := openTestStore(t)
	loader := query.NewLoader(st.DB())
	_, found, err := loader.Load(t.Context(), imdb.ID(999))
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("unknown id should not be found")
	}
}
