package consultation

import (
	"context"
	"errors"
)

var (
	ErrProviderUnavailable = errors.New("advice provider is not configured")
	ErrMalformedResponse   = errors.New("malformed consultation response")
)

// Provider sends a prompt to the generative-text service and returns the raw reply text.
// Implementations are expected to request JSON output.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UnavailableProvider is used when no provider credentials are configured
type UnavailableProvider struct{}

func (UnavailableProvider) Generate(context.Context, string) (string, error) {
	return "", ErrProviderUnavailable
}
