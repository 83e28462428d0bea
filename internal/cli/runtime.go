package cli

import (
	"fmt"
	"time"

	"github.com/Kavirubc/findora/internal/config"
	"github.com/Kavirubc/findora/internal/encoder"
	"github.com/Kavirubc/findora/internal/feature"
	"github.com/Kavirubc/findora/internal/store"
)

// loadConfig resolves, loads and validates the configuration
func loadConfig() (*config.Config, error) {
	cfgPath := config.FindConfigPath(cfgFile)
	if cfgPath == "" {
		return nil, fmt.Errorf("config file not found")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("config error: %v\n", e)
		}
		return nil, fmt.Errorf("invalid configuration")
	}

	return cfg, nil
}

// runtime bundles the collaborators the matching commands share
type runtime struct {
	store     *store.SQLiteStore
	extractor *feature.Extractor
	embedder  *encoder.FallbackEncoder
}

// newRuntime wires the store and encoders from config
func newRuntime(cfg *config.Config) (*runtime, error) {
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	embedder, err := encoder.NewFallbackEncoder(&cfg.Embedding)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create text encoder: %w", err)
	}

	vision := encoder.NewVisionClient(cfg.Vision.URL, cfg.Vision.Model,
		time.Duration(cfg.Vision.TimeoutSeconds)*time.Second)

	return &runtime{
		store:     st,
		extractor: feature.NewExtractor(vision, embedder),
		embedder:  embedder,
	}, nil
}

// Close releases the runtime's resources
func (r *runtime) Close() error {
	r.embedder.Close()
	return r.store.Close()
}
