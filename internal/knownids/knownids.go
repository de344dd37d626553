// Package knownids implements the per-sweep known-id set described in
// spec.md §4.5 and §9: a compact bitmap over the u32 title-id space,
// populated by the anchor (basics) importer and read by dependent importers
// once the anchor barrier has fired.
package knownids

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/sylv/hubble/internal/imdb"
)

// Set is a mutation-disciplined wrapper: exactly one writer (the anchor
// importer) calls Add during a sweep; dependent importers only call
// Contains, after the sweep's barrier has fired. The type itself does not
// enforce this — it mirrors the source's "guarded by convention" design —
// but a fresh Set must be constructed per sweep.
type Set struct {
	bitmap *roaring.Bitmap
}

// New returns an empty known-id set, to be populated fresh for one sweep.
func New() *Set {
	return &Set{bitmap: roaring.New()}
}

// Add records id as known. Only the anchor importer should call this.
func (s *Set) Add(id imdb.ID) {
	s.bitmap.Add(id.Uint32())
}

// Contains reports whether id was observed by the anchor importer this
// sweep.
func (s *Set) Contains(id imdb.ID) bool {
	return s.bitmap.Contains(id.Uint32())
}

// Len returns the number of distinct ids recorded so far.
func (s *Set) Len() uint64 {
	return s.bitmap.GetCardinality()
}
