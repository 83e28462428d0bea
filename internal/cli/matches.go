package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches [item-id]",
		Short: "List stored matches for an item",
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

			matches, err := rt.store.MatchesForItem(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list matches: %w", err)
			}

			if len(matches) == 0 {
				fmt.Println("No matches found")
				return nil
			}

			fmt.Printf("Found %d matches:\n\n", len(matches))
			for i, m := range matches {
				fmt.Printf("%d. %s [%s]\n", i+1, m.MatchID, m.Status)
				fmt.Printf("   Lost: %s | Found: %s\n", m.LostItemID, m.FoundItemID)
				fmt.Printf("   Confidence: %.1f%% | Image: %.1f%% | Text: %.1f%% | Location: %.1f%%\n\n",
					m.ConfidenceScore*100, m.ImageSimilarity*100,
					m.TextSimilarity*100, m.LocationScore*100)
			}

			return nil
		},
	}

	return cmd
}
