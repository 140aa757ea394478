// Package suggest generates short flavor sentences for "not found" replies.
// It is a cosmetic collaborator: callers must treat any failure as non-fatal
// and fall back to fixed wording.
package suggest

import (
	"context"
	"fmt"
)

// Suggester produces one generated sentence for a prompt. No conversation
// memory is kept between calls.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// Config holds provider-specific configuration.
type Config struct {
	Type    string
	BaseURL string
	APIKey  string
	Model   string
}

// Factory creates a suggester from configuration.
type Factory func(cfg Config) (Suggester, error)

var factories = make(map[string]Factory)

// Register adds a new suggester factory.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// New creates a suggester from configuration.
func New(cfg Config) (Suggester, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown suggester type: %s", cfg.Type)
	}
	return factory(cfg)
}

func init() {
	Register("none", func(Config) (Suggester, error) {
		return Disabled{}, nil
	})
}

// Disabled is a no-op suggester for deployments without a text-generation
// credential. It always errors so callers use their fallback wording.
type Disabled struct{}

// Suggest always reports that no suggestion is available.
func (Disabled) Suggest(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("suggestions disabled")
}
