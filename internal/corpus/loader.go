package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okonst/scribecheck/internal/model"
)

// Embedder produces a vector for one piece of text. Satisfied by
// embed.Batcher.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LoadFile reads reference sources from a JSON file: an array of
// source records, vectors optional. Sources without an ID are assigned
// a stable positional one so repeated ingestions of the same file
// produce the same identifiers.
func LoadFile(path string) ([]model.ReferenceSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var sources []model.ReferenceSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	for i := range sources {
		if sources[i].ID == "" {
			sources[i].ID = fmt.Sprintf("src-%04d", i+1)
		}
		if sources[i].Type == "" {
			sources[i].Type = model.SourcePaper
		}
	}

	return sources, nil
}

// Ingest fills in missing vectors using the embedder. A source whose
// embedding fails is kept with a nil vector: it stays resolvable and
// is simply excluded from similarity search, mirroring how sources
// behave when the provider was down at ingestion time. Returns the
// number of sources that ended up with vectors.
func Ingest(ctx context.Context, sources []model.ReferenceSource, embedder Embedder, verbose bool) int {
	embedded := 0
	for i := range sources {
		if sources[i].Vector != nil {
			embedded++
			continue
		}

		text := sources[i].EmbeddingText()
		if text == "" {
			if verbose {
				fmt.Fprintf(os.Stderr, "Warning: source %s has no text to embed, skipping\n", sources[i].ID)
			}
			continue
		}

		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: embedding failed for source %s: %v\n", sources[i].ID, err)
			continue
		}

		sources[i].Vector = vec
		embedded++
		if verbose {
			fmt.Fprintf(os.Stderr, "Embedded source %s (%d dimensions)\n", sources[i].ID, len(vec))
		}
	}
	return embedded
}
