package index

import (
	"errors"
	"math"
	"sort"

	"github.com/okonst/scribecheck/internal/model"
)

// ErrIndexEmpty indicates no reference vectors are available. Callers
// treat this as "no matches", never as a fatal condition.
var ErrIndexEmpty = errors.New("reference index has no vectors")

type entry struct {
	sourceID string
	vector   []float32
}

// Snapshot is an immutable in-memory similarity index over reference
// source vectors. Safe for concurrent reads; ingestion of new sources
// builds a fresh snapshot rather than mutating this one.
type Snapshot struct {
	entries []entry
	sources map[string]model.ReferenceSource
}

// BuildSnapshot constructs a snapshot from all reference sources that
// carry a vector. Sources without vectors, or whose vector does not
// match the corpus-wide dimension, are excluded from similarity search
// but remain resolvable by ID.
func BuildSnapshot(sources []model.ReferenceSource) *Snapshot {
	snap := &Snapshot{
		sources: make(map[string]model.ReferenceSource, len(sources)),
	}

	// The corpus dimension is the most common vector length. A
	// mismatched vector (a malformed precomputed embedding in a corpus
	// file) cannot produce a meaningful similarity.
	dim := corpusDimension(sources)

	for _, src := range sources {
		snap.sources[src.ID] = src
		if src.Vector == nil || len(src.Vector) != dim {
			continue
		}
		snap.entries = append(snap.entries, entry{sourceID: src.ID, vector: src.Vector})
	}
	// Deterministic scan order regardless of input order.
	sort.Slice(snap.entries, func(i, j int) bool {
		return snap.entries[i].sourceID < snap.entries[j].sourceID
	})
	return snap
}

// corpusDimension returns the most common vector length across the
// sources, ties broken by the smaller length for determinism.
func corpusDimension(sources []model.ReferenceSource) int {
	counts := make(map[int]int)
	for _, src := range sources {
		if src.Vector != nil {
			counts[len(src.Vector)]++
		}
	}

	dim, best := 0, 0
	for d, c := range counts {
		if c > best || (c == best && d < dim) {
			dim, best = d, c
		}
	}
	return dim
}

// Len returns the number of indexed vectors.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Source resolves a reference source by ID.
func (s *Snapshot) Source(id string) (model.ReferenceSource, bool) {
	src, ok := s.sources[id]
	return src, ok
}

// Query returns up to k matches sorted by descending cosine
// similarity, ties broken by ascending source ID. Runs purely on
// in-memory vectors; never blocks on I/O.
func (s *Snapshot) Query(vector []float32, k int) ([]model.Match, error) {
	if len(s.entries) == 0 {
		return nil, ErrIndexEmpty
	}
	if k <= 0 {
		k = 1
	}

	matches := make([]model.Match, 0, len(s.entries))
	for _, e := range s.entries {
		matches = append(matches, model.Match{
			SourceID:   e.sourceID,
			Similarity: CosineSimilarity(vector, e.vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].SourceID < matches[j].SourceID
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// CosineSimilarity computes dot(a,b)/(|a||b|), defined as 0 when the
// vectors differ in length or either has zero magnitude, clamped to
// [0,1].
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := 0; i < len(a); i++ {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
