package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okonst/scribecheck/internal/model"
	"github.com/okonst/scribecheck/internal/pipeline"
	"github.com/okonst/scribecheck/internal/worker"
)

var (
	outJSON         string
	corpusPath      string
	topicFlag       string
	levelFlag       string
	timeout         time.Duration
	flagThreshold   float64
	noCache         bool
	historyDir      string
	advisorEnabled  bool
	advisorProvider string
	advisorModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single document against the reference corpus",
	Long: `Analyze screens one text document:
- Split the document into paragraph segments
- Embed each segment with the configured provider
- Find the closest reference sources by cosine similarity
- Compute a length-weighted plagiarism score and flag sections
- Suggest sources and citation formats

Example:
  scribecheck analyze essay.txt --corpus sources.json
  scribecheck analyze essay.txt --corpus sources.json --topic "cell biology" --level undergraduate
  scribecheck analyze essay.txt --corpus sources.json --advisor --advisor-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")

	// Corpus and document metadata
	analyzeCmd.Flags().StringVar(&corpusPath, "corpus", "", "reference corpus JSON file")
	analyzeCmd.Flags().StringVar(&topicFlag, "topic", "", "document topic (used for research suggestions)")
	analyzeCmd.Flags().StringVar(&levelFlag, "level", "", "academic level (high_school, undergraduate, graduate)")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "similarity threshold for flagging sections (0 = config default)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	analyzeCmd.Flags().StringVar(&historyDir, "history-dir", "", "persist run history as JSON under this directory")

	// Advisor flags
	analyzeCmd.Flags().BoolVar(&advisorEnabled, "advisor", false, "enable generated research suggestions")
	analyzeCmd.Flags().StringVar(&advisorProvider, "advisor-provider", "openai", "advisor provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&advisorModel, "advisor-model", "gpt-4o-mini", "advisor model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Build configuration from flags
	cfg := loadConfig()
	if flagThreshold > 0 {
		cfg.Analysis.FlagThreshold = flagThreshold
	}
	cfg.Cache.Enabled = !noCache

	if err := configureAdvisor(cfg, advisorEnabled, advisorProvider, advisorModel); err != nil {
		return err
	}

	doc, err := worker.ReadDocumentFromFile(path, topicFlag, levelFlag)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (%d words)\n", doc.ID, doc.WordCount)
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", corpusPath)
		fmt.Fprintf(os.Stderr, "Threshold: %.2f\n", cfg.Analysis.FlagThreshold)
		fmt.Fprintln(os.Stderr)
	}

	analyzer, _, err := buildAnalyzer(ctx, cfg, corpusPath, historyDir)
	if err != nil {
		return err
	}

	if verbose {
		analyzer.SetStateHook(func(s model.RunState) {
			fmt.Fprintf(os.Stderr, "⚙️  %s\n", s)
		})
	}

	result, err := analyzer.Analyze(ctx, doc)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	// Render outputs
	renderer := pipeline.NewRenderer()
	renderer.RenderSummary(result)

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}

	return nil
}
