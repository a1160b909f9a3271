package segment

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/okonst/scribecheck/internal/model"
)

func TestSegment_EmptyDocument(t *testing.T) {
	s := NewSegmenter(20)

	for _, text := range []string{"", "   ", "\n\n\n", "\t \n"} {
		_, err := s.Segment(model.Document{ID: "d1", Text: text})
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Segment(%q): expected ErrEmptyDocument, got %v", text, err)
		}
	}
}

func TestSegment_ParagraphBoundaries(t *testing.T) {
	s := NewSegmenter(20)

	text := "The first paragraph has enough text to stand alone.\n\nThe second paragraph also has enough text to stand alone."
	segments, err := s.Segment(model.Document{ID: "d1", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segment %d: index = %d", i, seg.Index)
		}
		if seg.DocumentID != "d1" {
			t.Errorf("segment %d: document ID = %q", i, seg.DocumentID)
		}
		if got := text[seg.Start:seg.End]; got != seg.Text {
			t.Errorf("segment %d: offsets do not round-trip: %q != %q", i, got, seg.Text)
		}
		if seg.Length != seg.End-seg.Start {
			t.Errorf("segment %d: length = %d, span = %d", i, seg.Length, seg.End-seg.Start)
		}
	}
}

func TestSegment_ShortUnitMergedIntoPrevious(t *testing.T) {
	s := NewSegmenter(20)

	text := "A long enough opening paragraph with plenty of content.\n\nToo short.\n\nAnother long enough closing paragraph with plenty of content."
	segments, err := s.Segment(model.Document{ID: "d1", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments after merge, got %d", len(segments))
	}

	// The short middle unit extends the first segment's span.
	if got := text[segments[0].Start:segments[0].End]; got != segments[0].Text {
		t.Errorf("merged segment offsets do not round-trip")
	}
	if !strings.Contains(segments[0].Text, "Too short.") {
		t.Errorf("expected short unit merged into first segment, got %q", segments[0].Text)
	}
}

func TestSegment_LeadingNoiseDropped(t *testing.T) {
	s := NewSegmenter(20)

	text := "Short.\n\nA long enough paragraph that should survive as the only segment."
	segments, err := s.Segment(model.Document{ID: "d1", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if strings.Contains(segments[0].Text, "Short.") {
		t.Errorf("leading noise should be dropped, got %q", segments[0].Text)
	}
}

func TestSegment_OnlyShortUnits(t *testing.T) {
	s := NewSegmenter(20)

	_, err := s.Segment(model.Document{ID: "d1", Text: "Tiny."})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument for noise-only input, got %v", err)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	s := NewSegmenter(20)

	text := "First paragraph with a reasonable amount of text in it.\n\nSecond paragraph, also with a reasonable amount of text.\n\nShort.\n\nThird and final paragraph closing out the document body."
	doc := model.Document{ID: "d1", Text: text}

	first, err := s.Segment(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Segment(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("segmentation is not deterministic:\n%v\n%v", first, second)
	}
}

func TestSegment_WindowsLineEndings(t *testing.T) {
	s := NewSegmenter(20)

	text := "A paragraph with carriage returns at the boundary.\r\n\r\nA second paragraph following the CRLF blank line above it."
	segments, err := s.Segment(model.Document{ID: "d1", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Whatever boundary decision the splitter makes for CRLF input,
	// offsets must still round-trip against the raw text.
	for i, seg := range segments {
		if got := text[seg.Start:seg.End]; got != seg.Text {
			t.Errorf("segment %d: offsets do not round-trip", i)
		}
	}
}
