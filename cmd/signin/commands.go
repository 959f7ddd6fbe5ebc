package main

import (
	"errors"
	"fmt"

	"comic-service/internal/account"
	"comic-service/internal/auth/provider/google"
	"comic-service/internal/config"
	"comic-service/internal/logger"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "signin",
		Short:         "Sign in to the comic service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGoogleCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newStatusCommand(),
	)
	return root
}

// withCLI loads client config, wires a cli for one run and closes it after.
func withCLI(fn func(cmd *cobra.Command, app *cli) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		cfg, err := config.LoadClient()
		if err != nil {
			return err
		}
		logger.Init(cfg.LogLevel)

		app, err := newCLI(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, app.Close())
		}()

		return fn(cmd, app)
	}
}

func newGoogleCommand() *cobra.Command {
	var idToken string

	cmd := &cobra.Command{
		Use:   "google",
		Short: "Sign in with a Google id_token",
		RunE: withCLI(func(cmd *cobra.Command, app *cli) error {
			if app.cfg.GoogleClientID == "" {
				return errors.New("GOOGLE_CLIENT_ID is required")
			}

			p, err := google.New(cmd.Context(), app.cfg.GoogleClientID, "", "")
			if err != nil {
				return err
			}

			identity, err := p.VerifyIDToken(cmd.Context(), idToken)
			if err != nil {
				return err
			}
			if !identity.EmailVerified {
				return errors.New("google account email is not verified")
			}

			st, err := app.reconciler.SignIn(cmd.Context(), *identity)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), st)
		}),
	}

	cmd.Flags().StringVar(&idToken, "id-token", "", "Google id_token from the client SDK")
	_ = cmd.MarkFlagRequired("id-token")
	return cmd
}

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: withCLI(func(cmd *cobra.Command, app *cli) error {
			st, err := app.reconciler.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), st)
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved session and forget it",
		RunE: withCLI(func(cmd *cobra.Command, app *cli) error {

			token, err := app.creds.Load(cmd.Context())
			if err != nil {
				return err
			}
			if token != "" {
				if err := app.client.Logout(cmd.Context(), token); err != nil {
					logger.Warn("server logout failed", map[string]any{
						"error": err.Error(),
					})
				}
			}

			if err := app.reconciler.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		}),
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved session",
		RunE: withCLI(func(cmd *cobra.Command, app *cli) error {

			st, err := app.reconciler.Restore(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !st.Authenticated {
				fmt.Fprintln(out, "signed out")
				return nil
			}

			profile, err := app.client.Profile(cmd.Context(), st.Token)
			if err != nil {
				var apiErr *account.APIError
				if errors.As(err, &apiErr) {
					fmt.Fprintf(out, "saved session rejected: %s\n", apiErr.Message)
					return nil
				}
				return err
			}

			fmt.Fprintf(out, "signed in as %s (%s)\n", profile.Email, profile.UserName)
			return nil
		}),
	}
}
