package index

import (
	"sync/atomic"

	"github.com/okonst/scribecheck/internal/model"
)

// Holder owns the current index snapshot. Ingestion builds a new
// snapshot and swaps the single reference atomically, so in-flight
// queries never observe a partially updated index.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder seeded with an empty snapshot.
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(BuildSnapshot(nil))
	return h
}

// Snapshot returns the current snapshot for querying.
func (h *Holder) Snapshot() *Snapshot {
	return h.current.Load()
}

// Rebuild replaces the current snapshot with one built from the given
// sources.
func (h *Holder) Rebuild(sources []model.ReferenceSource) *Snapshot {
	snap := BuildSnapshot(sources)
	h.current.Store(snap)
	return snap
}
