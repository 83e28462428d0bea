package cli

import (
	"fmt"

	"github.com/Kavirubc/findora/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate and display the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := config.FindConfigPath(cfgFile)
			if cfgPath == "" {
				return fmt.Errorf("config file not found")
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if errs := config.Validate(cfg); len(errs) > 0 {
				fmt.Printf("Config %s has %d problems:\n", cfgPath, len(errs))
				for _, e := range errs {
					fmt.Printf("  - %v\n", e)
				}
				return fmt.Errorf("invalid configuration")
			}

			fmt.Printf("Config %s is valid\n\n", cfgPath)
			fmt.Printf("Database:       %s\n", cfg.Database.Path)
			fmt.Printf("Text encoder:   %s (%s, %d dims)\n",
				cfg.Embedding.Primary.Provider, cfg.Embedding.Primary.Model,
				cfg.Embedding.Primary.Dimensions)
			if cfg.Embedding.Fallback.Provider != "" {
				fmt.Printf("Fallback:       %s (%s)\n",
					cfg.Embedding.Fallback.Provider, cfg.Embedding.Fallback.Model)
			}
			fmt.Printf("Vision encoder: %s (%s)\n", cfg.Vision.URL, cfg.Vision.Model)
			fmt.Printf("Thresholds:     match %.2f, notify %.2f\n",
				cfg.Matching.MatchThreshold, cfg.Matching.NotificationThreshold)
			fmt.Printf("Agent:          poll %ds, batch %d, pool %d, top-k %d\n",
				cfg.Agent.PollIntervalSeconds, cfg.Agent.ObserveBatchSize,
				cfg.Matching.CandidatePoolSize, cfg.Matching.TopK)

			return nil
		},
	}

	return cmd
}
