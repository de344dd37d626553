// Package sync implements the ingest orchestrator (C5): it fans out one
// task per upstream feed, enforces the anchor-before-dependents ordering via
// a barrier, and triggers a search-index rebuild when titles or akas
// changed. See spec.md §4.5.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sylv/hubble/internal/cache"
	"github.com/sylv/hubble/internal/health"
	"github.com/sylv/hubble/internal/knownids"
	"github.com/sylv/hubble/internal/search"
	"github.com/sylv/hubble/internal/store"
	"github.com/sylv/hubble/internal/sync/fetch"
	"github.com/sylv/hubble/internal/sync/filemeta"
	"github.com/sylv/hubble/internal/sync/importers"
)

// Orchestrator owns the shared, read-mostly resources (store, logger) passed
// explicitly into each sweep rather than held as process-wide globals
// (spec.md §9 "global state").
type Orchestrator struct {
	dataDir string
	store   *store.Store
	log     zerolog.Logger
	feeds   []importers.Feed
}

// Option customizes an Orchestrator at construction time.
type Option func(*Orchestrator)

// WithFeeds overrides the feed descriptor list; used by tests to point at a
// local fixture server instead of datasets.imdbws.com.
func WithFeeds(feeds []importers.Feed) Option {
	return func(o *Orchestrator) { o.feeds = feeds }
}

func New(dataDir string, st *store.Store, log zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{dataDir: dataDir, store: st, log: log, feeds: importers.Feeds}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) cacheDir() string { return filepath.Join(o.dataDir, "cache") }

// FeedAges reports, per feed name, how long ago that feed last imported
// successfully. A feed absent from the map has never completed an import.
// Surfaced at GET /healthz so an operator can notice a sweep that keeps
// failing silently (spec.md §7 treats sweep failures as recoverable, which
// means nothing else will ever page anyone about it).
func (o *Orchestrator) FeedAges() map[string]time.Duration {
	ages := make(map[string]time.Duration, len(o.feeds))
	for _, feed := range o.feeds {
		destPath := cache.FeedPath(o.cacheDir(), feed.FileName)
		if age, ok := health.LastImportAge(destPath); ok {
			ages[feed.Name] = age
		}
	}
	return ages
}

// Sweep runs one end-to-end ingest pass. A sweep's failure is recoverable:
// the caller (the periodic driver) logs it and retries on the next tick
// (spec.md §7).
func (o *Orchestrator) Sweep(ctx context.Context) error {
	if err := os.MkdirAll(o.cacheDir(), 0o755); err != nil {
		return fmt.Errorf("sync: ensure cache dir: %w", err)
	}

	start := time.Now()
	known := knownids.New()
	b := newBarrier()
	var needsSearchUpdate atomic.Bool

	g, ctx := errgroup.WithContext(ctx)
	for _, feed := range o.feeds {
		g.Go(func() error {
			return o.runFeed(ctx, feed, known, b, &needsSearchUpdate)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if needsSearchUpdate.Load() {
		rebuildStart := time.Now()
		if err := search.Rebuild(o.store.DB()); err != nil {
			return fmt.Errorf("sync: rebuild search index: %w", err)
		}
		o.log.Info().Dur("elapsed", time.Since(rebuildStart)).Msg("search index rebuilt")
	}

	o.log.Info().Dur("elapsed", time.Since(start)).Msg("sweep complete")
	return nil
}

// runFeed implements one feed's task as described in spec.md §4.5 step 2.
// The barrier only fires when the anchor's own fetch+import succeeded;
// an anchor failure leaves it unfired, so dependents block until the
// errgroup's shared context is cancelled by the anchor's returned error
// (the BarrierPoisoned policy of spec.md §7).
func (o *Orchestrator) runFeed(ctx context.Context, feed importers.Feed, known *knownids.Set, b *barrier, needsSearchUpdate *atomic.Bool) error {
	destPath := cache.FeedPath(o.cacheDir(), feed.FileName)
	meta := filemeta.Load(destPath)

	changed, err := fetch.Fetch(ctx, nil, feed.URL, meta, destPath)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", feed.Name, err)
	}
	if changed {
		// Persist the cleared imported_at now, so an import that fails or is
		// cancelled below still leaves the new file marked for re-import.
		if err := meta.Save(); err != nil {
			return fmt.Errorf("save sidecar %s: %w", feed.Name, err)
		}
	}

	if feed.Class != importers.Anchor {
		select {
		case <-b.Wait():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var importErr error
	if meta.NeedsImport() {
		result, err := o.importFeed(ctx, feed, destPath, known)
		if err != nil {
			importErr = fmt.Errorf("import %s: %w", feed.Name, err)
		} else {
			o.log.Info().
				Str("feed", feed.Name).
				Int64("written", result.RowsWritten).
				Int64("dropped", result.RowsDropped).
				Msg("import complete")
			if feed.Name == "basics" || feed.Name == "akas" {
				needsSearchUpdate.Store(true)
			}
			meta.MarkImported()
		}
	}

	if feed.Class == importers.Anchor && importErr == nil {
		b.Fire()
	}
	if importErr != nil {
		return importErr
	}

	if err := meta.Save(); err != nil {
		return fmt.Errorf("save sidecar %s: %w", feed.Name, err)
	}
	return nil
}

func (o *Orchestrator) importFeed(ctx context.Context, feed importers.Feed, path string, known *knownids.Set) (importers.Result, error) {
	switch feed.Name {
	case "basics":
		return importers.ImportBasics(ctx, path, o.store, known, o.log)
	case "akas":
		return importers.ImportAkas(ctx, path, o.store, known, o.log)
	case "episodes":
		return importers.ImportEpisodes(ctx, path, o.store, known, o.log)
	case "ratings":
		return importers.ImportRatings(ctx, path, o.store, known, o.log)
	default:
		return importers.Result{}, fmt.Errorf("unknown feed %q", feed.Name)
	}
}
