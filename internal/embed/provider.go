package embed

import (
	"context"
	"fmt"
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	KindRateLimited        ErrorKind = "rate_limited"        // Transient, retried
	KindServiceUnavailable ErrorKind = "service_unavailable" // Transient, retried
	KindInvalidInput       ErrorKind = "invalid_input"       // Permanent, never retried
)

// ProviderError is a classified embedding failure.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %s: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure kind is transient.
func (e *ProviderError) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindServiceUnavailable
}

// Provider converts text into a fixed-dimension vector. Implementations
// classify failures as ProviderError so the batcher can decide whether
// to retry.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Embed returns the vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the expected vector dimensionality.
	Dimension() int
}
