package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Kavirubc/findora/pkg/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var (
		email string
		name  string
		phone string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a user",
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

			now := time.Now().UTC()
			user := &models.User{
				UserID:    uuid.New().String(),
				Email:     email,
				Name:      name,
				Phone:     phone,
				CreatedAt: now,
				UpdatedAt: now,
			}

			if err := rt.store.InsertUser(ctx, user); err != nil {
				return fmt.Errorf("failed to register user: %w", err)
			}

			fmt.Printf("Registered user %s (%s)\n", user.UserID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "unique email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")

	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
