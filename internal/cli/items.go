package cli

import (
	"context"
	"fmt"

	"github.com/Kavirubc/findora/pkg/models"
	"github.com/spf13/cobra"
)

func newItemsCmd() *cobra.Command {
	var (
		itemType string
		status   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List reported items",
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

			items, err := rt.store.ItemsByType(ctx, itemType, status, limit)
			if err != nil {
				return fmt.Errorf("failed to list items: %w", err)
			}

			if len(items) == 0 {
				fmt.Println("No items found")
				return nil
			}

			for _, item := range items {
				features := "pending"
				if item.FeatureComplete() {
					features = "extracted"
				}
				fmt.Printf("%s [%s/%s] %s\n", item.ItemID, item.ItemType, item.Status, item.Title)
				fmt.Printf("   Category: %s | Location: %s | Features: %s | Reported: %s\n",
					item.Category, item.Location, features, item.CreatedAt.Format("2006-01-02 15:04"))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&itemType, "type", "", "filter by item type (lost/found)")
	cmd.Flags().StringVar(&status, "status", models.ItemStatusActive, "filter by status")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum items to list")

	return cmd
}
