package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/punini-cli/internal/adapters/render/storefront"
	"github.com/bnema/punini-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr(), username, password)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (case-insensitive)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogout(cmd.Context(), app, cmd.OutOrStdout())
		},
	}
}

func newBalanceCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the coin balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBalance(app, cmd.OutOrStdout())
		},
	}
}

func runLogin(ctx context.Context, app *app, out, spinnerOut io.Writer, username, password string) error {
	var canonical string
	err := runPending(ctx, app, spinnerOut, "Opening the gate...", func(ctx context.Context) error {
		var err error
		canonical, err = app.ledger.Login(ctx, username, password)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return errors.New("invalid username or password")
		}
		return fmt.Errorf("sign in: %w", err)
	}

	session := app.ledger.Session()
	_, err = fmt.Fprintf(out, "Signed in as %s. Balance: %s\n", canonical, storefront.FormatCoins(session.Balance))
	return err
}

func runLogout(ctx context.Context, app *app, out io.Writer) error {
	wasSignedIn := app.ledger.Session().Authenticated
	if err := app.ledger.Logout(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	message := "Signed out."
	if !wasSignedIn {
		message = "Already signed out."
	}
	_, err := fmt.Fprintln(out, message)
	return err
}

func runBalance(app *app, out io.Writer) error {
	session := app.ledger.Session()
	if !session.Authenticated {
		return errNotSignedIn
	}

	_, err := fmt.Fprintf(out, "%s: %s\n", session.UserName, storefront.FormatCoins(session.Balance))
	return err
}

// ledgerError turns ledger sentinels into messages for the terminal.
func ledgerError(action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return errNotSignedIn
	case errors.Is(err, domain.ErrInvalidCode):
		return fmt.Errorf("%s: that code is not valid", action)
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return fmt.Errorf("%s: you already claimed that code this session", action)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
