package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okonst/scribecheck/internal/corpus"
	"github.com/okonst/scribecheck/internal/embed"
	"github.com/okonst/scribecheck/internal/index"
	"github.com/okonst/scribecheck/internal/model"
)

var (
	ingestOutput  string
	searchCorpus  string
	searchTopK    int
	sourceTimeout time.Duration
)

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the reference source corpus",
	Long: `Manage the reference corpus of academic sources.

Sources are stored as a JSON array. Each record carries a title,
authors, type (paper, textbook, course_material), and optionally an
abstract and a precomputed embedding vector.`,
}

// sourcesIngestCmd embeds sources that are missing vectors
var sourcesIngestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Embed reference sources and write the enriched corpus",
	Long: `Ingest reads a corpus JSON file, computes embedding vectors for
sources that are missing one (preferring the abstract over the full
text), and writes the enriched corpus back out. Sources whose embedding fails
are kept without a vector; they remain resolvable but are excluded from
similarity search.

Example:
  scribecheck sources ingest sources.json
  scribecheck sources ingest sources.json --output sources-embedded.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesIngest,
}

// sourcesSearchCmd runs an ad-hoc similarity query against the corpus
var sourcesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find the reference sources closest to a query text",
	Long: `Search embeds the query text and ranks the corpus by cosine
similarity.

Example:
  scribecheck sources search "photosynthesis in C4 plants" --corpus sources.json
  scribecheck sources search "mitosis phases" --corpus sources.json --top-k 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesSearch,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesIngestCmd)
	sourcesCmd.AddCommand(sourcesSearchCmd)

	sourcesIngestCmd.Flags().StringVar(&ingestOutput, "output", "", "output path (default: overwrite the input file)")
	sourcesIngestCmd.Flags().DurationVar(&sourceTimeout, "timeout", 5*time.Minute, "ingestion timeout")

	sourcesSearchCmd.Flags().StringVar(&searchCorpus, "corpus", "", "reference corpus JSON file (required)")
	sourcesSearchCmd.Flags().IntVar(&searchTopK, "top-k", 5, "number of results")
	_ = sourcesSearchCmd.MarkFlagRequired("corpus")
}

// newBatcher builds a standalone embedder for corpus commands.
func newBatcher(cfg *model.Config) (*embed.Batcher, error) {
	provider, err := newEmbedProvider(cfg)
	if err != nil {
		return nil, err
	}

	var cache *embed.VectorCache
	if cfg.Cache.Enabled {
		cache = embed.NewVectorCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return embed.NewBatcher(provider, cache, cfg.Embedding), nil
}

func runSourcesIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), sourceTimeout)
	defer cancel()

	cfg := loadConfig()
	batcher, err := newBatcher(cfg)
	if err != nil {
		return err
	}

	sources, err := corpus.LoadFile(path)
	if err != nil {
		return err
	}

	embedded := corpus.Ingest(ctx, sources, batcher, verbose)

	outPath := ingestOutput
	if outPath == "" {
		outPath = path
	}

	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ %d/%d sources embedded, wrote %s\n", embedded, len(sources), outPath)
	return nil
}

func runSourcesSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := loadConfig()
	batcher, err := newBatcher(cfg)
	if err != nil {
		return err
	}

	sources, err := corpus.LoadFile(searchCorpus)
	if err != nil {
		return err
	}

	snap := index.BuildSnapshot(sources)

	vec, err := batcher.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	matches, err := snap.Query(vec, searchTopK)
	if err != nil {
		return fmt.Errorf("search corpus: %w", err)
	}

	fmt.Printf("Top %d sources for: %s\n\n", len(matches), query)
	for i, m := range matches {
		src, ok := snap.Source(m.SourceID)
		if !ok {
			continue
		}
		fmt.Printf("%d. [%.3f] %s", i+1, m.Similarity, src.Title)
		if src.Authors != "" {
			fmt.Printf(" by %s", src.Authors)
		}
		fmt.Printf(" (%s)\n", src.Type)
	}

	return nil
}
