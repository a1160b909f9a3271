package score

import (
	"math"
	"testing"

	"github.com/okonst/scribecheck/internal/model"
)

func twoSegments(lengths ...int) []model.Segment {
	segs := make([]model.Segment, len(lengths))
	offset := 0
	for i, l := range lengths {
		segs[i] = model.Segment{
			DocumentID: "d1",
			Index:      i,
			Start:      offset,
			End:        offset + l,
			Length:     l,
			Text:       "x",
		}
		offset += l + 2
	}
	return segs
}

func okVectors(indices ...int) []model.SegmentVector {
	vs := make([]model.SegmentVector, len(indices))
	for i, idx := range indices {
		vs[i] = model.SegmentVector{SegmentIndex: idx, Vector: []float32{1}, Status: model.VectorOK}
	}
	return vs
}

func TestAggregate_TwoParagraphScenario(t *testing.T) {
	// One near-identical paragraph (0.93), one original (0.10), equal
	// lengths, threshold 0.85.
	a := NewAggregator(0.85)
	segments := twoSegments(100, 100)
	vectors := okVectors(0, 1)
	matches := map[int][]model.Match{
		0: {{SegmentIndex: 0, SourceID: "src-1", Similarity: 0.93}},
		1: {{SegmentIndex: 1, SourceID: "src-2", Similarity: 0.10}},
	}

	got := a.Aggregate(segments, vectors, matches, nil)

	if math.Abs(got.PlagiarismScore-0.515) > 1e-9 {
		t.Errorf("PlagiarismScore = %f, want 0.515", got.PlagiarismScore)
	}
	if got.ConfidenceScore != 1.0 {
		t.Errorf("ConfidenceScore = %f, want 1.0", got.ConfidenceScore)
	}
	if len(got.FlaggedSections) != 1 {
		t.Fatalf("flagged sections = %d, want 1", len(got.FlaggedSections))
	}
	flagged := got.FlaggedSections[0]
	if flagged.SegmentIndex != 0 || flagged.SourceID != "src-1" {
		t.Errorf("wrong section flagged: %+v", flagged)
	}
	if flagged.Start != segments[0].Start || flagged.End != segments[0].End {
		t.Errorf("flagged offsets not preserved: %+v vs %+v", flagged, segments[0])
	}
}

func TestAggregate_LengthWeighting(t *testing.T) {
	// A short highly similar segment must not dominate a long original
	// one.
	a := NewAggregator(0.85)
	segments := twoSegments(20, 980)
	vectors := okVectors(0, 1)
	matches := map[int][]model.Match{
		0: {{SegmentIndex: 0, SourceID: "s1", Similarity: 1.0}},
		1: {{SegmentIndex: 1, SourceID: "s2", Similarity: 0.0}},
	}

	got := a.Aggregate(segments, vectors, matches, nil)

	want := 20.0 / 1000.0
	if math.Abs(got.PlagiarismScore-want) > 1e-9 {
		t.Errorf("PlagiarismScore = %f, want %f", got.PlagiarismScore, want)
	}
}

func TestAggregate_FailedSegmentExcludedFromScore(t *testing.T) {
	// One segment fails after retries, the other scores 0.40 below
	// threshold.
	a := NewAggregator(0.85)
	segments := twoSegments(100, 100)
	vectors := []model.SegmentVector{
		{SegmentIndex: 0, Status: model.VectorFailed},
		{SegmentIndex: 1, Vector: []float32{1}, Status: model.VectorOK},
	}
	matches := map[int][]model.Match{
		1: {{SegmentIndex: 1, SourceID: "s1", Similarity: 0.40}},
	}

	got := a.Aggregate(segments, vectors, matches, nil)

	if got.ConfidenceScore != 0.5 {
		t.Errorf("ConfidenceScore = %f, want 0.5", got.ConfidenceScore)
	}
	if len(got.FlaggedSections) != 0 {
		t.Errorf("flagged sections = %d, want 0", len(got.FlaggedSections))
	}
	if math.Abs(got.PlagiarismScore-0.40) > 1e-9 {
		t.Errorf("PlagiarismScore = %f, want 0.40 (failed segment excluded)", got.PlagiarismScore)
	}
}

func TestAggregate_AllEmbeddingsFailed(t *testing.T) {
	a := NewAggregator(0.85)
	segments := twoSegments(100, 100)
	vectors := []model.SegmentVector{
		{SegmentIndex: 0, Status: model.VectorFailed},
		{SegmentIndex: 1, Status: model.VectorFailed},
	}

	got := a.Aggregate(segments, vectors, nil, nil)

	if got.PlagiarismScore != 0 {
		t.Errorf("PlagiarismScore = %f, want 0", got.PlagiarismScore)
	}
	if got.ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %f, want 0", got.ConfidenceScore)
	}
}

func TestAggregate_NoMatchesMeansZeroScore(t *testing.T) {
	// Empty reference corpus: segments embed fine but have no matches.
	a := NewAggregator(0.85)
	segments := twoSegments(100, 100)
	vectors := okVectors(0, 1)

	got := a.Aggregate(segments, vectors, map[int][]model.Match{}, nil)

	if got.PlagiarismScore != 0 {
		t.Errorf("PlagiarismScore = %f, want 0", got.PlagiarismScore)
	}
	if got.ConfidenceScore != 1.0 {
		t.Errorf("ConfidenceScore = %f, want 1.0", got.ConfidenceScore)
	}
	if len(got.FlaggedSections) != 0 {
		t.Errorf("flagged sections = %d, want 0", len(got.FlaggedSections))
	}
}

func TestAggregate_AllBelowThresholdNoFlags(t *testing.T) {
	a := NewAggregator(0.85)
	segments := twoSegments(50, 70, 90)
	vectors := okVectors(0, 1, 2)
	matches := map[int][]model.Match{
		0: {{SegmentIndex: 0, SourceID: "s1", Similarity: 0.84}},
		1: {{SegmentIndex: 1, SourceID: "s2", Similarity: 0.50}},
		2: {{SegmentIndex: 2, SourceID: "s3", Similarity: 0.85}}, // exactly at threshold is not flagged
	}

	got := a.Aggregate(segments, vectors, matches, nil)

	if len(got.FlaggedSections) != 0 {
		t.Errorf("flagged sections = %d, want 0 when nothing exceeds threshold", len(got.FlaggedSections))
	}
}

func TestAggregate_ScoreBounds(t *testing.T) {
	a := NewAggregator(0.85)
	segments := twoSegments(10, 20, 30)
	vectors := okVectors(0, 2)
	matches := map[int][]model.Match{
		0: {{SegmentIndex: 0, SourceID: "s1", Similarity: 1.0}},
		2: {{SegmentIndex: 2, SourceID: "s2", Similarity: 0.99}},
	}

	got := a.Aggregate(segments, vectors, matches, nil)

	if got.PlagiarismScore < 0 || got.PlagiarismScore > 1 {
		t.Errorf("PlagiarismScore %f outside [0,1]", got.PlagiarismScore)
	}
	if got.ConfidenceScore < 0 || got.ConfidenceScore > 1 {
		t.Errorf("ConfidenceScore %f outside [0,1]", got.ConfidenceScore)
	}
}

func TestAggregate_BestMatchPicksHighestThenLowestID(t *testing.T) {
	a := NewAggregator(0.85)
	segments := twoSegments(100)
	vectors := okVectors(0)
	matches := map[int][]model.Match{
		0: {
			{SegmentIndex: 0, SourceID: "z-src", Similarity: 0.90},
			{SegmentIndex: 0, SourceID: "a-src", Similarity: 0.90},
			{SegmentIndex: 0, SourceID: "b-src", Similarity: 0.70},
		},
	}

	got := a.Aggregate(segments, vectors, matches, nil)

	if len(got.FlaggedSections) != 1 {
		t.Fatalf("flagged sections = %d, want 1", len(got.FlaggedSections))
	}
	if got.FlaggedSections[0].SourceID != "a-src" {
		t.Errorf("best match = %s, want a-src (tie broken by ID)", got.FlaggedSections[0].SourceID)
	}
}

func TestAggregate_EmptySegments(t *testing.T) {
	a := NewAggregator(0.85)
	got := a.Aggregate(nil, nil, nil, nil)
	if got.PlagiarismScore != 0 || got.ConfidenceScore != 0 {
		t.Errorf("empty input should yield zero scores: %+v", got)
	}
}
