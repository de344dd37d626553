package query

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/sylv/hubble/internal/imdb"
	"github.com/sylv/hubble/internal/store"
)

// coalesceWindow is how long the loader waits for more concurrent id
// requests to arrive before issuing one batched SELECT (spec.md §9
// "dataloader batching").
const coalesceWindow = 2 * time.Millisecond

type titleRequest struct {
	id     imdb.ID
	result chan titleResult
}

type titleResult struct {
	title store.Title
	found bool
	err   error
}

// Loader coalesces concurrent by-id title lookups occurring within the same
// short window into a single "WHERE id IN (...)" query.
type Loader struct {
	db *sql.DB

	mu      sync.Mutex
	pending []titleRequest
	timer   *time.Timer
}

func NewLoader(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// Load resolves a single id, batching with any other Load calls that arrive
// within coalesceWindow. LoadMany calls are not part of these batches.
func (l *Loader) Load(ctx context.Context, id imdb.ID) (store.Title, bool, error) {
	req := titleRequest{id: id, result: make(chan titleResult, 1)}

	l.mu.Lock()
	l.pending = append(l.pending, req)
	if l.timer == nil {
		l.timer = time.AfterFunc(coalesceWindow, l.flush)
	}
	l.mu.Unlock()

	select {
	case res := <-req.result:
		return res.title, res.found, res.err
	case <-ctx.Done():
		return store.Title{}, false, ctx.Err()
	}
}

// LoadMany resolves ids into a map keyed by id, missing entries simply
// absent — mirrors TitlesByIDs' contract directly. It issues its own query
// immediately and is not coalesced with Load or other LoadMany calls.
func (l *Loader) LoadMany(ids []imdb.ID) (map[imdb.ID]store.Title, error) {
	return store.TitlesByIDs(l.db, ids)
}

func (l *Loader) flush() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.timer = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	ids := make([]imdb.ID, len(batch))
	for i, r := range batch {
		ids[i] = r.id
	}
	titles, err := store.TitlesByIDs(l.db, ids)
	for _, r := range batch {
		if err != nil {
			r.result <- titleResult{err: err}
			continue
		}
		t, ok := titles[r.id]
		r.result <- titleResult{title: t, found: ok}
	}
}
