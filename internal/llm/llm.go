package llm

import (
	"context"
	"errors"
	"fmt"
)

// Provider is a single-shot, stateless text-generation backend. Implementations
// wrap one vendor SDK; they hold no conversation state between calls.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ErrNotConfigured signals that the provider's API credential is absent.
// Callers route around it with the offline fallback path instead of failing.
var ErrNotConfigured = errors.New("llm: provider not configured")

// New creates a text-generation provider by name. On error the returned
// Provider is a nil interface, never a typed-nil pointer, so callers can rely
// on a plain == nil check for the offline path.
func New(ctx context.Context, name, apiKey, model string) (Provider, error) {
	switch name {
	case "gemini":
		p, err := NewGemini(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "openai":
		p, err := NewOpenAI(apiKey, model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "anthropic":
		p, err := NewAnthropic(apiKey, model)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q: choose gemini, openai, or anthropic", name)
	}
}
