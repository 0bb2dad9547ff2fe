package main

import (
	"fmt"

	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/spf13/cobra"
)

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your BudgetIQ account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			app, err := newApp()
			if err != nil {
				return err
			}

			var resp tokenResponse
			if err := app.client.Post(cmd.Context(), "/api/auth/login",
				map[string]string{"email": email, "password": password}, &resp); err != nil {
				return app.fail(err)
			}

			if err := app.session.Login(resp.AccessToken, resp.User); err != nil {
				return err
			}

			app.bus.Success(fmt.Sprintf("Welcome back, %s!", resp.User.Name))
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the saved session",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.session.Logout(); err != nil {
				return err
			}
			app.bus.Info("Logged out")
			return nil
		},
	}
}

func signupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new BudgetIQ account",
		Long: `Create a new BudgetIQ account.

The server sends a verification email; log in after verifying.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			app, err := newApp()
			if err != nil {
				return err
			}

			var resp messageResponse
			if err := app.client.Post(cmd.Context(), "/api/auth/signup",
				map[string]string{"name": name, "email": email, "password": password}, &resp); err != nil {
				return app.fail(err)
			}

			app.bus.Success(resp.Message)
			return nil
		},
	}

	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func forgotPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")

			app, err := newApp()
			if err != nil {
				return err
			}

			var resp messageResponse
			if err := app.client.Post(cmd.Context(), "/api/auth/forgot-password",
				map[string]string{"email": email}, &resp); err != nil {
				return app.fail(err)
			}

			app.bus.Info(resp.Message)
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func resetPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, _ := cmd.Flags().GetString("token")
			password, _ := cmd.Flags().GetString("new-password")

			app, err := newApp()
			if err != nil {
				return err
			}

			var resp messageResponse
			if err := app.client.Post(cmd.Context(), "/api/auth/reset-password",
				map[string]string{"token": token, "new_password": password}, &resp); err != nil {
				return app.fail(err)
			}

			app.bus.Success(resp.Message)
			return nil
		},
	}

	cmd.Flags().String("token", "", "reset token from the email")
	cmd.Flags().String("new-password", "", "new account password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("new-password")

	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			user, ok := app.session.User()
			if !ok {
				fmt.Println("not logged in")
				return nil
			}

			fmt.Printf("%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}
