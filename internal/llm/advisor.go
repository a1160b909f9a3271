package llm

import (
	"context"
	"fmt"
)

// Advisor wraps an optional generative provider. When no provider is
// configured, every call reports disabled and callers fall back to
// static template text. A provider failure is returned to the caller,
// which must degrade gracefully rather than fail the analysis.
type Advisor struct {
	provider Provider
	config   Config
}

// NewAdvisor creates an advisor from configuration. An empty provider
// name yields a disabled advisor, not an error.
func NewAdvisor(config Config) (*Advisor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Advisor{
		provider: provider,
		config:   config,
	}, nil
}

// NewAdvisorWithProvider wraps an existing provider directly. Used by
// callers that construct providers themselves and by tests.
func NewAdvisorWithProvider(provider Provider, config Config) *Advisor {
	return &Advisor{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured.
func (a *Advisor) IsEnabled() bool {
	return a != nil && a.provider != nil
}

// ProviderName returns the configured provider's name, or "" when
// disabled.
func (a *Advisor) ProviderName() string {
	if !a.IsEnabled() {
		return ""
	}
	return a.provider.Name()
}

// Advise generates research guidance text. Returns (nil, nil) when the
// advisor is disabled so the caller can distinguish "no provider" from
// "provider failed".
func (a *Advisor) Advise(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if !a.IsEnabled() {
		return nil, nil
	}

	if req.MaxTokens == 0 {
		req.MaxTokens = a.config.MaxTokens
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.provider.Name(), err)
	}
	return resp, nil
}
