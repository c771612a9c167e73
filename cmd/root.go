package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var opts wireOptions
	app := &app{}

	rootCmd := &cobra.Command{
		Use:           "punini",
		Short:         "Punini store: browse collectibles, spend coins and redeem daily codes",
		Long:          "punini keeps a signed-in session with a coin balance, lets you buy from the Punini catalog and redeem daily codes. The session and balance survive restarts; redeemed codes are remembered for the current session only (use \"punini shell\" to keep one session open).",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.logOutput = cmd.ErrOrStderr()
			wired, err := wireApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*app = *wired
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.punini/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newBalanceCmd(app),
		newStoreCmd(app),
		newRedeemCmd(app),
		newProfileCmd(app),
		newShellCmd(app),
	)

	return rootCmd
}
