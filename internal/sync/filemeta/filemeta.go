// Package filemeta implements the per-file download/import sidecar
// described in spec.md §4.2: a JSON file living next to each cached feed
// recording HTTP caching metadata and import status.
package filemeta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Meta is the persisted sidecar record for one cached file.
type Meta struct {
	Path         string     `json:"path"`
	DownloadedAt *time.Time `json:"downloaded_at,omitempty"`
	ETag         string     `json:"etag,omitempty"`
	LastModified string     `json:"last_modified,omitempty"`
	ImportedAt   *time.Time `json:"imported_at,omitempty"`
}

// sidecarPath returns "<feed>.json" for a cached "<feed>.tsv.gz" file path:
// a trailing ".gz" and the format extension before it are both replaced.
func sidecarPath(filePath string) string {
	base := strings.TrimSuffix(filePath, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// Load returns the persisted record for filePath, or a fresh empty record
// if the sidecar is absent or corrupt — it is never an error to load a file
// that has never been seen before.
func Load(filePath string) *Meta {
	data, err := os.ReadFile(sidecarPath(filePath))
	if err != nil {
		return &Meta{Path: filePath}
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return &Meta{Path: filePath}
	}
	if m.Path != filePath {
		// Sidecar belongs to a different path (e.g. the cache dir moved);
		// treat as fresh rather than trusting stale caching headers.
		return &Meta{Path: filePath}
	}
	return &m
}

// Save atomically rewrites the sidecar via a temp-file-then-rename, so a
// crash mid-write never leaves a half-written sidecar behind.
func (m *Meta) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("filemeta: marshal: %w", err)
	}
	target := sidecarPath(m.Path)
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".filemeta-*.json.tmp")
	if err != nil {
		return fmt.Errorf("filemeta: create temp: %w", err)
	}
	name := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(name)
		if writeErr != nil {
			return fmt.Errorf("filemeta: write: %w", writeErr)
		}
		return fmt.Errorf("filemeta: close: %w", closeErr)
	}
	if err := os.Rename(name, target); err != nil {
		os.Remove(name)
		return fmt.Errorf("filemeta: rename: %w", err)
	}
	return nil
}

// NeedsImport reports whether the companion file's contents have not yet
// been fully applied to the store (spec.md §3-I4).
func (m *Meta) NeedsImport() bool {
	return m.ImportedAt == nil
}

// MarkImported sets ImportedAt to now.
func (m *Meta) MarkImported() {
	t := time.Now().UTC()
	m.ImportedAt = &t
}

// ClearImported unsets ImportedAt — used when the conditional fetcher
// detects changed content, forcing re-import once the record is saved.
func (m *Meta) ClearImported() {
	m.ImportedAt = nil
}
