package model

import "time"

// Config holds the complete application configuration.
type Config struct {
	Segmenter   SegmenterConfig   `yaml:"segmenter" mapstructure:"segmenter"`
	Embedding   EmbeddingConfig   `yaml:"embedding" mapstructure:"embedding"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Advisor     AdvisorConfig     `yaml:"advisor" mapstructure:"advisor"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// SegmenterConfig controls document segmentation.
type SegmenterConfig struct {
	// MinSegmentLength is the character length below which a unit is
	// merged into the previous one or dropped as noise.
	MinSegmentLength int `yaml:"min_segment_length" mapstructure:"min_segment_length"`
}

// EmbeddingConfig controls the vector provider adapter.
type EmbeddingConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"-" mapstructure:"-"` // Never written to config files
	BaseURL     string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Dimension   int           `yaml:"dimension" mapstructure:"dimension"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-call timeout
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"` // Base delay, doubles per attempt
	RatePerSec  float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	BurstSize   int           `yaml:"burst_size" mapstructure:"burst_size"`
	MaxInFlight int           `yaml:"max_in_flight" mapstructure:"max_in_flight"`
}

// AnalysisConfig controls scoring and suggestion selection.
type AnalysisConfig struct {
	// FlagThreshold is the best-match similarity above which a segment
	// is flagged. The default of 0.85 is inherited configuration, not
	// a calibrated constant.
	FlagThreshold  float64 `yaml:"flag_threshold" mapstructure:"flag_threshold"`
	TopK           int     `yaml:"top_k" mapstructure:"top_k"`                     // Matches retained per segment
	MaxSuggestions int     `yaml:"max_suggestions" mapstructure:"max_suggestions"` // Suggested source cap
}

// AdvisorConfig controls the optional generative text collaborator.
type AdvisorConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"-" mapstructure:"-"`
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig controls the embedding cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ConcurrencyConfig controls batch document analysis.
type ConcurrencyConfig struct {
	AnalysisWorkers int `yaml:"analysis_workers" mapstructure:"analysis_workers"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Segmenter: SegmenterConfig{
			MinSegmentLength: 20,
		},
		Embedding: EmbeddingConfig{
			Provider:    "openai",
			Model:       "text-embedding-ada-002",
			Dimension:   1536,
			Timeout:     30 * time.Second,
			MaxRetries:  3,
			RetryDelay:  500 * time.Millisecond,
			RatePerSec:  10,
			BurstSize:   5,
			MaxInFlight: 4,
		},
		Analysis: AnalysisConfig{
			FlagThreshold:  0.85,
			TopK:           3,
			MaxSuggestions: 5,
		},
		Advisor: AdvisorConfig{
			Provider:  "", // Disabled by default; static templates are used
			Timeout:   30 * time.Second,
			MaxTokens: 600,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			AnalysisWorkers: 4,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
