package model

// Document represents a submitted text document awaiting analysis.
// Immutable once handed to the pipeline.
type Document struct {
	ID            string `json:"id"`                       // Caller-assigned identifier
	Text          string `json:"text"`                     // Full document text
	Topic         string `json:"topic,omitempty"`          // Assignment topic (metadata)
	AcademicLevel string `json:"academic_level,omitempty"` // e.g. "undergraduate", "graduate"
	WordCount     int    `json:"word_count,omitempty"`     // Whitespace-delimited word count
}

// Segment is a contiguous analyzable span of a document's text.
// Offsets index into the original document text and are never
// adjusted after segmentation.
type Segment struct {
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"` // Ordinal position within the document (0-based)
	Start      int    `json:"start"` // Byte offset of the first character
	End        int    `json:"end"`   // Byte offset one past the last character
	Text       string `json:"text"`
	Length     int    `json:"length"` // Character length of the span
}

// VectorStatus records the outcome of one embedding attempt.
type VectorStatus string

const (
	VectorOK      VectorStatus = "ok"      // Vector produced and dimension-validated
	VectorFailed  VectorStatus = "failed"  // Provider error after exhausting retries
	VectorSkipped VectorStatus = "skipped" // Not attempted (cancelled before dispatch)
)

// SegmentVector is the transient embedding result for one segment.
// Produced during a single analysis run and never persisted on its own.
type SegmentVector struct {
	SegmentIndex int
	Vector       []float32 // nil unless Status == VectorOK
	Status       VectorStatus
	Err          error // Cause when Status == VectorFailed
}

// Match pairs a segment with a reference source and their similarity.
type Match struct {
	SegmentIndex int     `json:"segment_index"`
	SourceID     string  `json:"source_id"`
	Similarity   float64 `json:"similarity"` // Cosine similarity clamped to [0,1]
}
