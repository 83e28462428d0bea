package encoder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kavirubc/findora/internal/config"
)

// FallbackEncoder tries the primary text encoder and falls back to the
// secondary when the primary call fails. The fallback is optional; without
// one, primary failures surface as errors and the extraction layer degrades
// the item to text-less.
type FallbackEncoder struct {
	primary  TextEncoder
	fallback TextEncoder
	logger   *slog.Logger
}

// NewFallbackEncoder wires text encoders from config
func NewFallbackEncoder(cfg *config.EmbeddingConfig) (*FallbackEncoder, error) {
	primary, err := newTextEncoder(&cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary encoder: %w", err)
	}

	var fallback TextEncoder
	if cfg.Fallback.Provider != "" && cfg.Fallback.APIKey != "" {
		fallback, err = newTextEncoder(&cfg.Fallback)
		if err != nil {
			slog.Warn("failed to create fallback encoder", "error", err)
		}
	}

	return &FallbackEncoder{
		primary:  primary,
		fallback: fallback,
		logger:   slog.Default(),
	}, nil
}

func newTextEncoder(cfg *config.ProviderConfig) (TextEncoder, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiEncoder(cfg.APIKey, cfg.Model, cfg.Dimensions)
	case "openai":
		return NewOpenAIEncoder(cfg.APIKey, cfg.Model, cfg.Dimensions)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// Embed generates an embedding, trying the fallback on primary failure
func (e *FallbackEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding, err := e.primary.Embed(ctx, text)
	if err == nil {
		return embedding, nil
	}

	if e.fallback == nil {
		return nil, fmt.Errorf("primary embedding failed (no fallback): %w", err)
	}

	e.logger.Warn("primary embedding failed, trying fallback", "error", err)
	return e.fallback.Embed(ctx, text)
}

// Close releases both encoders; the first error wins
func (e *FallbackEncoder) Close() error {
	err := e.primary.Close()
	if e.fallback != nil {
		if ferr := e.fallback.Close(); err == nil {
			err = ferr
		}
	}
	return err
}
