package suggest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/okonst/scribecheck/internal/llm"
	"github.com/okonst/scribecheck/internal/model"
)

// Composer produces the research-suggestion and citation-
// recommendation text for an analysis. Template text is always
// available; when an Advisor is attached its output replaces the
// research template, and any Advisor failure degrades back to the
// template rather than failing the run.
type Composer struct {
	advisor *llm.Advisor // nil or disabled means templates only
}

// NewComposer creates a composer with an optional advisor.
func NewComposer(advisor *llm.Advisor) *Composer {
	return &Composer{advisor: advisor}
}

// Research composes the research-suggestion text.
func (c *Composer) Research(ctx context.Context, doc model.Document, sources []model.SuggestedSource) string {
	if c.advisor.IsEnabled() {
		resp, err := c.advisor.Advise(ctx, llm.GenerateRequest{
			Topic:         doc.Topic,
			AcademicLevel: doc.AcademicLevel,
			Sources:       sources,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: suggestion generation failed, using template: %v\n", err)
		} else if resp != nil && resp.Text != "" {
			return resp.Text
		}
	}
	return researchTemplate(doc, sources)
}

// Citations composes the citation-recommendation text from the
// suggested sources' types.
func (c *Composer) Citations(sources []model.SuggestedSource) string {
	if len(sources) == 0 {
		return "No closely related sources were found in the reference corpus. " +
			"Cite any external material you consulted using APA format: author, year, title."
	}

	var b strings.Builder
	b.WriteString("Use APA format for citations. For the matched sources:\n")
	for _, src := range sources {
		b.WriteString("- ")
		b.WriteString(citationLine(src))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// citationLine renders one per-type citation hint.
func citationLine(src model.SuggestedSource) string {
	author := src.Authors
	if author == "" {
		author = "Unknown author"
	}
	year := "n.d."
	if src.PublicationYear != 0 {
		year = fmt.Sprintf("%d", src.PublicationYear)
	}

	switch src.Type {
	case model.SourceTextbook:
		return fmt.Sprintf("%s (%s). %s. Cite the specific chapter and page range you draw on.", author, year, src.Title)
	case model.SourceCourseMaterial:
		return fmt.Sprintf("%s (%s). %s [Course material]. Confirm with your instructor whether course handouts are citable.", author, year, src.Title)
	default: // paper
		return fmt.Sprintf("%s (%s). %s. Include the journal or venue and DOI if available.", author, year, src.Title)
	}
}

// researchTemplate is the static fallback text.
func researchTemplate(doc model.Document, sources []model.SuggestedSource) string {
	topic := strings.TrimSpace(doc.Topic)

	if len(sources) == 0 {
		if topic == "" {
			return "No closely related sources were found in the reference corpus. " +
				"Broaden your search with subject-specific databases and ask your library for guidance."
		}
		return fmt.Sprintf("No closely related sources were found for %q in the reference corpus. "+
			"Broaden your search with subject-specific databases and ask your library for guidance.", topic)
	}

	var b strings.Builder
	if topic == "" {
		b.WriteString("Based on your assignment, consider these related sources from the reference corpus:\n")
	} else {
		fmt.Fprintf(&b, "For your work on %q, consider these related sources from the reference corpus:\n", topic)
	}
	for _, src := range sources {
		fmt.Fprintf(&b, "- %s", src.Title)
		switch src.Type {
		case model.SourceTextbook:
			b.WriteString(" (textbook; useful for foundational background)")
		case model.SourceCourseMaterial:
			b.WriteString(" (course material; check alignment with your syllabus)")
		default:
			b.WriteString(" (paper; useful for current findings and methodology)")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
