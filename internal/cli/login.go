package cli

import (
	"context"
	"fmt"

	"github.com/me/minify/internal/nav"
	"github.com/me/minify/internal/validate"
	"github.com/me/minify/pkg/model"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your account",
		Long:  "Log in and store the session token. Missing credentials are prompted for when stdin is a terminal.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			err := a.promptMissing("Login",
				field{title: "Username", value: &username},
				field{title: "Password", value: &password, password: true},
			)
			if err != nil {
				return err
			}
			if err := validate.Login(username, password); err != nil {
				return err
			}

			user, err := a.auth.Login(ctx, model.LoginRequest{Username: username, Password: password})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Username)
			a.nav.Navigate(nav.Dashboard)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var username, email, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Create an account and log in with it.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			err := a.promptMissing("Create account",
				field{title: "Username", value: &username},
				field{title: "Email", value: &email},
				field{title: "Password", value: &password, password: true},
				field{title: "Confirm password", value: &confirm, password: true},
			)
			if err != nil {
				return err
			}
			if err := validate.Registration(username, email, password, confirm); err != nil {
				return err
			}

			user, err := a.auth.Register(ctx, model.CreateUserRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Logged in as %s\n", user.Username)
			a.nav.Navigate(nav.Dashboard)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (at least 3 characters)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (at least 6 characters)")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "Repeat the password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Long:  "Remove the stored session. The token is not revoked on the server.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			a.auth.Logout(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			user := a.auth.User()
			if user == nil {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			fmt.Fprintf(out, "Username: %s\n", user.Username)
			fmt.Fprintf(out, "Email:    %s\n", user.Email)
			fmt.Fprintf(out, "ID:       %d\n", user.ID)
			fmt.Fprintf(out, "Joined:   %s\n", created(user.CreatedAt))
			fmt.Fprintf(out, "Admin:    %t\n", a.auth.IsAdmin())
			return nil
		}),
	}
}
