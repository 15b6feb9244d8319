package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mommatch/mommatch-backend/internal/profile"
)

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage member accounts",
	}
	cmd.AddCommand(newUserCreateCommand(opts))
	return cmd
}

func newUserCreateCommand(opts *rootOptions) *cobra.Command {
	req := &profile.CreateUserRequest{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a member who can sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := profile.NewService(profile.NewRepository(db), cfg.BCryptCost)
			created, err := svc.CreateUser(cmd.Context(), req)
			if err != nil {
				if errors.Is(err, profile.ErrEmailTaken) {
					return fmt.Errorf("a member with email %s already exists", req.Email)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created member %d (%s)\n", created.ID, created.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "display name shown on the profile card")
	cmd.Flags().StringVar(&req.Password, "password", "", "sign-in password")
	cmd.Flags().StringVar(&req.Bio, "bio", "", "profile bio")
	cmd.Flags().StringVar(&req.City, "city", "", "city")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
