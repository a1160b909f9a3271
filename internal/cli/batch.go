package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/okonst/scribecheck/internal/pipeline"
	"github.com/okonst/scribecheck/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze all .txt documents in a directory in parallel",
	Long: `Batch analyzes multiple documents concurrently:
- Read every .txt file in the directory as one document
- Ingest and index the reference corpus once, shared across all runs
- Analyze documents in parallel with a configurable worker count
- Write one JSON report per document

Example:
  scribecheck batch ./essays --corpus sources.json
  scribecheck batch ./essays --corpus sources.json --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (0 = config default)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./scribecheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared flags with analyze
	batchCmd.Flags().StringVar(&corpusPath, "corpus", "", "reference corpus JSON file")
	batchCmd.Flags().StringVar(&topicFlag, "topic", "", "topic applied to every document")
	batchCmd.Flags().StringVar(&levelFlag, "level", "", "academic level applied to every document")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	batchCmd.Flags().StringVar(&historyDir, "history-dir", "", "persist run history as JSON under this directory")

	// Advisor flags
	batchCmd.Flags().BoolVar(&advisorEnabled, "advisor", false, "enable generated research suggestions")
	batchCmd.Flags().StringVar(&advisorProvider, "advisor-provider", "openai", "advisor provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&advisorModel, "advisor-model", "gpt-4o-mini", "advisor model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Build configuration
	cfg := loadConfig()
	cfg.Cache.Enabled = !noCache
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.AnalysisWorkers
	}

	if err := configureAdvisor(cfg, advisorEnabled, advisorProvider, advisorModel); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ScribeCheck Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Corpus:       %s\n", corpusPath)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if advisorEnabled {
		fmt.Fprintf(os.Stderr, "  Advisor:      %s/%s\n", advisorProvider, advisorModel)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// One analyzer shared across all workers: documents share the index
	// snapshot, the embedding cache, and the rate limiter.
	analyzer, _, err := buildAnalyzer(ctx, cfg, corpusPath, historyDir)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(analyzer, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading documents...\n")
	results, err := processor.ProcessDir(ctx, dir, topicFlag, levelFlag)
	if err != nil {
		return fmt.Errorf("process directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "⚙️  Analyzing with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Process results
	successCount := 0
	failureCount := 0

	renderer := pipeline.NewRenderer()
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.DocumentID, result.Error)
			continue
		}

		successCount++

		jsonPath := filepath.Join(outputDir, result.DocumentID+".json")
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.DocumentID, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (score: %.3f, confidence: %.2f)\n",
			result.DocumentID, result.Result.PlagiarismScore, result.Result.ConfidenceScore)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
