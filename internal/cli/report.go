package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavirubc/findora/pkg/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		userID      string
		title       string
		description string
		category    string
		location    string
		latitude    float64
		longitude   float64
		hasCoords   bool
		itemType    string
		reward      float64
		contact     string
		imagePath   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a lost or found item",
		Long: `Report an item. The agent picks it up on its next cycle, extracts
features and matches it against opposite-type reports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if !models.ValidateItemType(itemType) {
				return fmt.Errorf("invalid item type %q (use \"lost\" or \"found\")", itemType)
			}
			if !models.ValidateCategory(category) {
				return fmt.Errorf("invalid category %q (valid: %v)", category, models.ValidCategories)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			now := time.Now().UTC()
			item := &models.Item{
				ItemID:       uuid.New().String(),
				UserID:       userID,
				Title:        title,
				Description:  description,
				Category:     category,
				Location:     location,
				ItemType:     models.ItemType(itemType),
				RewardAmount: reward,
				ContactInfo:  contact,
				ImagePath:    imagePath,
				Status:       models.ItemStatusActive,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if hasCoords {
				item.Latitude = &latitude
				item.Longitude = &longitude
			}

			if err := rt.store.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("failed to report item: %w", err)
			}

			fmt.Printf("Reported %s item %s (%q)\n", item.ItemType, item.ItemID, item.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "reporting user ID")
	cmd.Flags().StringVar(&title, "title", "", "short item title")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().StringVar(&category, "category", "other", "item category")
	cmd.Flags().StringVar(&location, "location", "", "where the item was lost/found")
	cmd.Flags().Float64Var(&latitude, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "longitude")
	cmd.Flags().StringVar(&itemType, "type", "", "\"lost\" or \"found\"")
	cmd.Flags().Float64Var(&reward, "reward", 0, "reward amount")
	cmd.Flags().StringVar(&contact, "contact", "", "contact info surfaced in notifications")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to an item photo")

	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("contact")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasCoords = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")
	}

	return cmd
}
