package filemeta_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sylv/hubble/internal/sync/filemeta"
)

func TestLoadFreshWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.basics.tsv.gz")
	m := filemeta.Load(path)
	if m.Path != path {
		t.Fatalf("Path = %q, want %q", m.Path, path)
	}
	if !m.NeedsImport() {
		t.Fatal("a fresh record should need import")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.basics.tsv.gz")
	m := filemeta.Load(path)
	m.ETag = `"abc123"`
	m.LastModified = "Wed, 21 Oct 2015 07:28:00 GMT"
	m.MarkImported()
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := filemeta.Load(path)
	if reloaded.ETag != m.ETag || reloaded.LastModified != m.LastModified {
		t.Fatalf("round trip mismatch: %+v vs %+v", reloaded, m)
	}
	if reloaded.NeedsImport() {
		t.Fatal("imported_at should have survived the round trip")
	}
}

func TestClearImportedForcesReimport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.akas.tsv.gz")
	m := filemeta.Load(path)
	m.MarkImported()
	m.ClearImported()
	if !m.NeedsImport() {
		t.Fatal("ClearImported should force NeedsImport to report true")
	}
}

func TestLoadCorruptSidecarIsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "title.ratings.tsv.gz")
	sidecar := filepath.Join(dir, "title.ratings.json")
	if err := os.WriteFile(sidecar, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	m := filemeta.Load(path)
	if !m.NeedsImport() {
		t.Fatal("corrupt sidecar should be treated as a fresh record")
	}
}
