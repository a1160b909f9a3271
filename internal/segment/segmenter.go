package segment

import (
	"errors"
	"strings"

	"github.com/okonst/scribecheck/internal/model"
)

// ErrEmptyDocument indicates the input contained no analyzable text.
var ErrEmptyDocument = errors.New("document contains no non-whitespace content")

// Segmenter splits document text into analyzable units on blank-line
// paragraph boundaries. Segmentation is deterministic: the same text
// always yields the same boundaries, which reproducible scoring
// depends on.
type Segmenter struct {
	minLength int
}

// NewSegmenter creates a segmenter. Units shorter than minLength
// characters are merged into the previous unit, or dropped as noise
// when no previous unit exists.
func NewSegmenter(minLength int) *Segmenter {
	if minLength <= 0 {
		minLength = 20
	}
	return &Segmenter{minLength: minLength}
}

// Segment splits the document's text into ordered segments. Offsets
// index into the original text and are exact; downstream consumers use
// them to map flagged sections back to the document.
func (s *Segmenter) Segment(doc model.Document) ([]model.Segment, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrEmptyDocument
	}

	spans := paragraphSpans(doc.Text)

	var segments []model.Segment
	for _, sp := range spans {
		text := doc.Text[sp.start:sp.end]
		if len(strings.TrimSpace(text)) < s.minLength && len(segments) > 0 {
			// Merge short unit into the previous segment. The merged
			// span covers the gap between them so offsets stay exact.
			prev := &segments[len(segments)-1]
			prev.End = sp.end
			prev.Text = doc.Text[prev.Start:prev.End]
			prev.Length = prev.End - prev.Start
			continue
		}
		if len(strings.TrimSpace(text)) < s.minLength {
			// Leading noise with nothing to merge into.
			continue
		}
		segments = append(segments, model.Segment{
			DocumentID: doc.ID,
			Start:      sp.start,
			End:        sp.end,
			Text:       text,
			Length:     sp.end - sp.start,
		})
	}

	if len(segments) == 0 {
		return nil, ErrEmptyDocument
	}

	for i := range segments {
		segments[i].Index = i
	}

	return segments, nil
}

type span struct {
	start, end int
}

// paragraphSpans locates blank-line-delimited paragraphs and returns
// their trimmed byte spans in document order.
func paragraphSpans(text string) []span {
	var spans []span
	offset := 0
	for _, block := range strings.Split(text, "\n\n") {
		start := offset
		offset += len(block) + 2 // account for the delimiter

		// Trim surrounding whitespace but keep offsets anchored to
		// the original text.
		trimmedLeft := strings.TrimLeft(block, " \t\r\n")
		start += len(block) - len(trimmedLeft)
		trimmed := strings.TrimRight(trimmedLeft, " \t\r\n")
		if trimmed == "" {
			continue
		}
		spans = append(spans, span{start: start, end: start + len(trimmed)})
	}
	return spans
}
