package cli

import (
	"context"
	"fmt"

	"github.com/Kavirubc/findora/internal/config"
	"github.com/Kavirubc/findora/internal/engine"
	"github.com/Kavirubc/findora/pkg/models"
	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	var (
		threshold float64
		topK      int
	)

	cmd := &cobra.Command{
		Use:   "match [item-id]",
		Short: "Rank candidate matches for an item (debugging/testing)",
		Long:  `Score one item against the opposite-type candidate pool and print the ranked matches without persisting anything.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			item, err := rt.store.Item(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch item: %w", err)
			}
			if item == nil {
				return fmt.Errorf("item %s not found", args[0])
			}
			if !item.FeatureComplete() {
				return fmt.Errorf("item %s has no extracted features yet (run the agent first)", args[0])
			}

			pool, err := rt.store.CandidatePool(ctx, item.OppositeType(), models.ItemStatusActive, cfg.Matching.CandidatePoolSize)
			if err != nil {
				return fmt.Errorf("failed to fetch candidates: %w", err)
			}

			candidates := make([]*models.Item, 0, len(pool))
			for _, c := range pool {
				if c.FeatureComplete() {
					candidates = append(candidates, c)
				}
			}

			threshold, topK = resolveRankParams(cmd, threshold, topK, &cfg.Matching)

			results := engine.New().Rank(item, candidates, threshold, topK)
			if len(results) == 0 {
				fmt.Println("No matches found")
				return nil
			}

			fmt.Printf("Found %d matches for %q:\n\n", len(results), item.Title)
			for i, r := range results {
				fmt.Printf("%d. %s (%s)\n", i+1, r.Item.Title, r.Item.ItemID)
				fmt.Printf("   Confidence: %.1f%% | Image: %.1f%% | Text: %.1f%% | Location: %.1f%% | Time: %.1f%%\n\n",
					r.Result.ConfidenceScore*100, r.Result.ImageSimilarity*100,
					r.Result.TextSimilarity*100, r.Result.LocationScore*100,
					r.Result.TemporalScore*100)
			}

			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "match threshold (default from config)")
	cmd.Flags().IntVar(&topK, "top-k", 0, "maximum matches to show (default from config)")

	return cmd
}

// resolveRankParams fills unset flags from config. An explicit --threshold 0
// means "show everything" and is kept as given.
func resolveRankParams(cmd *cobra.Command, threshold float64, topK int, m *config.MatchingConfig) (float64, int) {
	if !cmd.Flags().Changed("threshold") {
		threshold = m.MatchThreshold
	}
	if !cmd.Flags().Changed("top-k") {
		topK = m.TopK
	}
	return threshold, topK
}
