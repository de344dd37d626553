// Package health reports whether hubble's store is reachable and how stale
// the last successful dataset sweep is.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sylv/hubble/internal/sync/filemeta"
)

// CheckStore pings the database, failing fast if the sqlite file is locked
// or missing rather than letting the first query request discover it.
func CheckStore(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

// Status is the JSON body served at GET /healthz.
type Status struct {
	Store      string `json:"store"`
	LastImport string `json:"lastImport,omitempty"`
	Stale      bool   `json:"stale,omitempty"`
}

// LastImportAge reads a feed's sidecar and reports how long ago it last
// imported successfully, used to flag a sweep that has silently stopped
// succeeding (spec.md §7: failures are logged and retried, never fatal, so
// an operator needs this to notice a sweep that is perpetually failing).
func LastImportAge(feedPath string) (age time.Duration, ok bool) {
	meta := filemeta.Load(feedPath)
	if meta.ImportedAt == nil {
		return 0, false
	}
	return time.Since(*meta.ImportedAt), true
}
