package score

import (
	"sort"

	"github.com/okonst/scribecheck/internal/index"
	"github.com/okonst/scribecheck/internal/model"
)

// Assessment is the document-level aggregate produced from per-segment
// match evidence.
type Assessment struct {
	PlagiarismScore  float64
	FlaggedSections  []model.FlaggedSection
	ConfidenceScore  float64
	SegmentsTotal    int
	SegmentsEmbedded int
}

const excerptLimit = 200

// Aggregator turns per-segment matches into a document-level
// plagiarism score and flagged-section list.
type Aggregator struct {
	threshold float64
}

// NewAggregator creates an aggregator with the given flag threshold.
func NewAggregator(threshold float64) *Aggregator {
	if threshold <= 0 {
		threshold = 0.85
	}
	return &Aggregator{threshold: threshold}
}

// Threshold returns the configured flag threshold.
func (a *Aggregator) Threshold() float64 {
	return a.threshold
}

// Aggregate computes the length-weighted plagiarism score, the flagged
// sections and the confidence score.
//
// Segments whose embedding failed contribute to neither the numerator
// nor the denominator of the score; they only lower the confidence.
// A similarity is never fabricated for a segment that could not be
// embedded.
func (a *Aggregator) Aggregate(segments []model.Segment, vectors []model.SegmentVector, matches map[int][]model.Match, snap *index.Snapshot) Assessment {
	assessment := Assessment{
		SegmentsTotal: len(segments),
	}
	if len(segments) == 0 {
		return assessment
	}

	embedded := make(map[int]bool, len(vectors))
	for _, v := range vectors {
		if v.Status == model.VectorOK {
			embedded[v.SegmentIndex] = true
		}
	}

	var weightedSum, totalLength float64

	for _, seg := range segments {
		if !embedded[seg.Index] {
			continue
		}
		assessment.SegmentsEmbedded++

		best, ok := bestMatch(matches[seg.Index])
		if !ok {
			// Index was empty for this query: counts as similarity 0
			// but still a successfully analyzed segment.
			totalLength += float64(seg.Length)
			continue
		}

		weightedSum += best.Similarity * float64(seg.Length)
		totalLength += float64(seg.Length)

		if best.Similarity > a.threshold {
			section := model.FlaggedSection{
				SegmentIndex: seg.Index,
				Start:        seg.Start,
				End:          seg.End,
				Excerpt:      excerpt(seg.Text),
				SourceID:     best.SourceID,
				Similarity:   best.Similarity,
			}
			if snap != nil {
				if src, found := snap.Source(best.SourceID); found {
					section.SourceTitle = src.Title
				}
			}
			assessment.FlaggedSections = append(assessment.FlaggedSections, section)
		}
	}

	if totalLength > 0 {
		assessment.PlagiarismScore = clamp01(weightedSum / totalLength)
	}
	assessment.ConfidenceScore = float64(assessment.SegmentsEmbedded) / float64(assessment.SegmentsTotal)

	sort.Slice(assessment.FlaggedSections, func(i, j int) bool {
		return assessment.FlaggedSections[i].SegmentIndex < assessment.FlaggedSections[j].SegmentIndex
	})

	return assessment
}

func bestMatch(matches []model.Match) (model.Match, bool) {
	if len(matches) == 0 {
		return model.Match{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Similarity > best.Similarity ||
			(m.Similarity == best.Similarity && m.SourceID < best.SourceID) {
			best = m
		}
	}
	return best, true
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit] + "..."
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
