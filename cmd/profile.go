package cmd

import (
	"fmt"
	"io"

	"github.com/bnema/punini-cli/internal/adapters/render/storefront"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user, balance and session activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfile(app, cmd.OutOrStdout(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func runProfile(app *app, out io.Writer, asJSON bool) error {
	if !app.ledger.Session().Authenticated {
		return errNotSignedIn
	}

	profile := app.ledger.Profile()
	if asJSON {
		return writeJSON(out, profile)
	}

	rendered, err := storefront.RenderProfile(profile, storefront.ProfileOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render profile: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}
