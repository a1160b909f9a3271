package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/okonst/scribecheck/internal/model"
)

// OpenAIProvider implements Provider using OpenAI's embeddings API.
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewOpenAIProvider creates an OpenAI embedding provider from config.
func NewOpenAIProvider(cfg model.EmbeddingConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embModel := openai.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		embModel = openai.AdaEmbeddingV2
	}

	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = 1536
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     embModel,
		dimension: dimension,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Dimension returns the expected vector dimensionality.
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// Embed requests an embedding for the given text. Failures are
// classified as ProviderError; a vector of unexpected dimension is
// treated as a provider failure, not silently accepted.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ProviderError{Kind: KindInvalidInput, Err: errors.New("empty input text")}
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Data) == 0 {
		return nil, &ProviderError{Kind: KindServiceUnavailable, Err: errors.New("no embedding in response")}
	}

	vector := resp.Data[0].Embedding
	if len(vector) != p.dimension {
		return nil, &ProviderError{
			Kind: KindServiceUnavailable,
			Err:  fmt.Errorf("dimension mismatch: got %d, want %d", len(vector), p.dimension),
		}
	}

	return vector, nil
}

// classifyOpenAIError maps API errors onto ProviderError kinds.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ProviderError{Kind: KindRateLimited, Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &ProviderError{Kind: KindServiceUnavailable, Err: err}
		case apiErr.HTTPStatusCode == http.StatusBadRequest,
			apiErr.HTTPStatusCode == http.StatusUnprocessableEntity:
			return &ProviderError{Kind: KindInvalidInput, Err: err}
		}
	}
	// Network errors, timeouts and anything unclassified count as
	// service unavailability so they remain retryable.
	return &ProviderError{Kind: KindServiceUnavailable, Err: err}
}
