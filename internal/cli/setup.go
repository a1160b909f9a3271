package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/okonst/scribecheck/internal/corpus"
	"github.com/okonst/scribecheck/internal/embed"
	"github.com/okonst/scribecheck/internal/index"
	"github.com/okonst/scribecheck/internal/llm"
	"github.com/okonst/scribecheck/internal/model"
	"github.com/okonst/scribecheck/internal/pipeline"
	"github.com/okonst/scribecheck/internal/store"
)

// loadConfig builds the effective configuration: defaults overlaid with
// the config file and environment. Flags are applied by each command on
// top of the returned value.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid config file, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}

	cfg.Output.Verbose = verbose
	return cfg
}

// newEmbedProvider constructs the embedding provider from config. API
// keys come from the environment only.
func newEmbedProvider(cfg *model.Config) (embed.Provider, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return embed.NewOpenAIProvider(cfg.Embedding)
	case "":
		return nil, fmt.Errorf("no embedding provider configured")
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// configureAdvisor applies the advisor flags and pulls API keys from
// the environment for the chosen provider.
func configureAdvisor(cfg *model.Config, enabled bool, provider, modelName string) error {
	if !enabled {
		cfg.Advisor.Provider = ""
		return nil
	}

	cfg.Advisor.Provider = provider
	cfg.Advisor.Model = modelName

	switch provider {
	case "openai":
		cfg.Advisor.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Advisor.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.Advisor.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.Advisor.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL != "" {
			cfg.Advisor.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unknown advisor provider: %s", provider)
	}

	return nil
}

// buildAnalyzer assembles the full pipeline and, when a corpus path is
// given, ingests and indexes the reference sources through the
// analyzer's own embedder so the cache and rate limiter are shared.
func buildAnalyzer(ctx context.Context, cfg *model.Config, corpusPath, historyDir string) (*pipeline.Analyzer, *index.Holder, error) {
	provider, err := newEmbedProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	advisor, err := llm.NewAdvisor(llm.ConfigFromModel(cfg.Advisor))
	if err != nil {
		return nil, nil, fmt.Errorf("configure advisor: %w", err)
	}

	var st store.Store = store.NewMemoryStore()
	if historyDir != "" {
		st = store.NewFileStore(historyDir)
	}

	holder := index.NewHolder()
	analyzer := pipeline.NewAnalyzer(cfg, provider, holder, st, advisor)

	if corpusPath != "" {
		sources, err := corpus.LoadFile(corpusPath)
		if err != nil {
			return nil, nil, err
		}

		embedded := corpus.Ingest(ctx, sources, analyzer.Batcher(), verbose)
		holder.Rebuild(sources)

		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Indexed %d/%d reference sources\n", embedded, len(sources))
		}
	}

	return analyzer, holder, nil
}
