package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your account profile",
	}

	cmd.AddCommand(profileUpdateCmd())
	cmd.AddCommand(profileAvatarCmd())

	return cmd
}

func profileUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your name or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			current, _ := app.session.User()
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			if name == "" {
				name = current.Name
			}
			if email == "" {
				email = current.Email
			}

			var updated model.User
			if err := app.client.Put(cmd.Context(), "/api/profile",
				map[string]string{"name": name, "email": email}, &updated); err != nil {
				return app.fail(err)
			}

			// Keep the persisted user entry in sync with the server.
			if err := app.session.UpdateUser(updated); err != nil {
				return err
			}

			app.bus.Success("Profile updated")
			return nil
		},
	}

	cmd.Flags().String("name", "", "new display name")
	cmd.Flags().String("email", "", "new account email")

	return cmd
}

func profileAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open avatar file: %w", err)
			}
			defer func() { _ = file.Close() }()

			var updated model.User
			if err := app.client.Upload(cmd.Context(), "/api/profile/avatar",
				"file", filepath.Base(args[0]), file, &updated); err != nil {
				return app.fail(err)
			}

			if err := app.session.UpdateUser(updated); err != nil {
				return err
			}

			app.bus.Success("Avatar updated")
			return nil
		},
	}
}
