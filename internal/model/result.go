package model

import "time"

// RunState tracks the progress of one analysis run.
type RunState string

const (
	StatePending    RunState = "pending"
	StateSegmenting RunState = "segmenting"
	StateEmbedding  RunState = "embedding"
	StateScoring    RunState = "scoring"
	StateSuggesting RunState = "suggesting"
	StateCompleted  RunState = "completed"

	// StateFailed is terminal and reachable only from unrecoverable
	// conditions: an empty document or a persistence failure. Partial
	// embedding failures reduce confidence and proceed.
	StateFailed RunState = "failed"
)

// FlaggedSection is a segment whose best match exceeded the similarity
// threshold. Offsets are carried verbatim from the Segmenter so the
// section maps back to the original document text.
type FlaggedSection struct {
	SegmentIndex int     `json:"segment_index"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	Excerpt      string  `json:"excerpt,omitempty"` // Leading excerpt of the segment text
	SourceID     string  `json:"source_id"`
	SourceTitle  string  `json:"source_title,omitempty"`
	Similarity   float64 `json:"similarity"`
}

// SuggestedSource is one ranked source recommendation.
type SuggestedSource struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Authors         string     `json:"authors,omitempty"`
	PublicationYear int        `json:"publication_year,omitempty"`
	Type            SourceType `json:"source_type"`
	Similarity      float64    `json:"similarity"` // Max similarity across any segment
}

// AnalysisResult is the complete outcome of one analysis run. A
// re-analysis of the same document produces a new record rather than
// mutating an old one.
type AnalysisResult struct {
	DocumentID string `json:"document_id"`

	PlagiarismScore float64          `json:"plagiarism_score"` // Length-weighted mean, [0,1]
	FlaggedSections []FlaggedSection `json:"flagged_sections"` // Ordered by segment index

	SuggestedSources        []SuggestedSource `json:"suggested_sources"` // ≤5, unique by ID
	ResearchSuggestions     string            `json:"research_suggestions,omitempty"`
	CitationRecommendations string            `json:"citation_recommendations,omitempty"`

	// ConfidenceScore is the fraction of segments successfully
	// embedded. 1.0 means every segment contributed to the score.
	ConfidenceScore float64 `json:"confidence_score"`

	SegmentsTotal    int       `json:"segments_total"`
	SegmentsEmbedded int       `json:"segments_embedded"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}
