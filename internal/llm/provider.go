package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/okonst/scribecheck/internal/model"
)

// Provider defines the interface for generative text providers.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces free-text research guidance from matched sources
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for suggestion text generation.
type GenerateRequest struct {
	// Topic and AcademicLevel carry the document metadata
	Topic         string
	AcademicLevel string

	// Sources is the STRICT allowlist of sources the text may discuss.
	// The model must never invent or cite a source outside this list.
	Sources []model.SuggestedSource

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the provider's generated output.
type GenerateResponse struct {
	// Text is the generated guidance
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds generative provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 600,
	}
}

// ConfigFromModel converts model.AdvisorConfig to llm.Config.
func ConfigFromModel(cfg model.AdvisorConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   int(cfg.Timeout.Seconds()),
		MaxTokens: cfg.MaxTokens,
	}
}

// BuildPrompt constructs the default prompt for research guidance with
// the matched sources as a strict allowlist.
func BuildPrompt(req GenerateRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are advising a student on research sources for an academic assignment.

Topic: %s
Academic level: %s

CRITICAL RULES:
1. You may ONLY discuss the sources listed below.
2. DO NOT invent, infer, or cite any source not in this list.
3. If the list is empty, say no closely related sources were found and
   give general research advice for the topic instead.

Matched sources:
`, orNotSpecified(req.Topic), orNotSpecified(req.AcademicLevel))

	if len(req.Sources) == 0 {
		b.WriteString("(none)\n")
	}
	for _, src := range req.Sources {
		fmt.Fprintf(&b, "- [%s] %s", src.Type, src.Title)
		if src.Authors != "" {
			fmt.Fprintf(&b, " by %s", src.Authors)
		}
		if src.PublicationYear != 0 {
			fmt.Fprintf(&b, " (%d)", src.PublicationYear)
		}
		fmt.Fprintf(&b, ", similarity %.2f\n", src.Similarity)
	}

	b.WriteString("\nWrite 3-5 sentences of research direction for the student, grounded only in the sources above.")

	return b.String()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not specified)"
	}
	return s
}
