package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/punini-cli/internal/adapters/render/storefront"
	"github.com/bnema/punini-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newRedeemCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <code>",
		Short: "Redeem a daily code for coins",
		Long:  "Redeem a daily code for coins. Codes are case-insensitive and can be claimed once per session; each invocation outside \"punini shell\" starts a fresh claim record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRedeem(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
}

func runRedeem(ctx context.Context, app *app, out, spinnerOut io.Writer, code string) error {
	var credited int64
	err := runPending(ctx, app, spinnerOut, "Checking code...", func(ctx context.Context) error {
		var err error
		credited, err = app.ledger.Redeem(ctx, code)
		return err
	})
	if err != nil {
		return ledgerError("redeem", err)
	}

	balance := app.ledger.Session().Balance
	_, err = fmt.Fprintf(out, "Redeemed %s: +%s. Balance: %s\n",
		domain.NormalizeCode(code), storefront.FormatCoins(credited), storefront.FormatCoins(balance))
	return err
}
