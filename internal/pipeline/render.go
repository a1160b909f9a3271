package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/okonst/scribecheck/internal/model"
)

// Renderer writes analysis results to files and the terminal.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the result as indented JSON to the given path.
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable summary to stdout.
func (r *Renderer) RenderSummary(result *model.AnalysisResult) {
	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Printf("  Analysis: %s\n", result.DocumentID)
	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Printf("Plagiarism score:  %.3f\n", result.PlagiarismScore)
	fmt.Printf("Confidence:        %.2f (%d/%d segments embedded)\n",
		result.ConfidenceScore, result.SegmentsEmbedded, result.SegmentsTotal)
	fmt.Printf("Flagged sections:  %d\n", len(result.FlaggedSections))

	for _, section := range result.FlaggedSections {
		fmt.Printf("  [%d-%d] %.3f  %s\n", section.Start, section.End, section.Similarity, section.SourceTitle)
	}

	if len(result.SuggestedSources) > 0 {
		fmt.Println("\nSuggested sources:")
		for i, src := range result.SuggestedSources {
			fmt.Printf("  %d. %s (%.3f)\n", i+1, src.Title, src.Similarity)
		}
	}

	if result.ResearchSuggestions != "" {
		fmt.Printf("\n%s\n", result.ResearchSuggestions)
	}
	if result.CitationRecommendations != "" {
		fmt.Printf("\n%s\n", result.CitationRecommendations)
	}
}
