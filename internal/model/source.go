package model

// SourceType categorizes a reference source.
type SourceType string

const (
	SourcePaper          SourceType = "paper"
	SourceTextbook       SourceType = "textbook"
	SourceCourseMaterial SourceType = "course_material"
)

// ReferenceSource is one entry in the reference corpus. Created on
// ingestion and read-only thereafter.
type ReferenceSource struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Authors         string     `json:"authors,omitempty"`
	PublicationYear int        `json:"publication_year,omitempty"`
	Abstract        string     `json:"abstract,omitempty"`
	FullText        string     `json:"full_text,omitempty"`
	Type            SourceType `json:"source_type"`

	// Vector is nil when the embedding provider was unavailable at
	// ingestion time. Sources without vectors are excluded from
	// similarity search.
	Vector []float32 `json:"embedding,omitempty"`
}

// EmbeddingText returns the text used to embed this source. The
// abstract is preferred over the full text: it is shorter and captures
// the source's topical content.
func (s *ReferenceSource) EmbeddingText() string {
	if s.Abstract != "" {
		return s.Abstract
	}
	return s.FullText
}
