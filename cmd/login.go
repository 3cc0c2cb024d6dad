package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workai-app/workai-cli/internal/application"
)

func newLoginCmd(app *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to WorkAI and start a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessions.Login(cmd.Context(), application.LoginInput{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", session.User.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCmd(app *app) *cobra.Command {
	var input application.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a WorkAI account and start a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessions.Register(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", session.User.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&input.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "Account password")
	cmd.Flags().StringVar(&input.ConfirmPassword, "confirm-password", "", "Password confirmation")
	cmd.Flags().StringVar(&input.Plan, "plan", "free", "Subscription plan")
	cmd.Flags().BoolVar(&input.IsYearly, "yearly", false, "Bill yearly instead of monthly")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm-password")

	return cmd
}
