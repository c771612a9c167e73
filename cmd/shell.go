package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/spf13/cobra"
)

const shellHelp = `commands:
  login <username> <password>   sign in
  logout                        sign out
  balance                       show the coin balance
  list [rarity] [search...]     list products, optionally filtered
  show <id>                     show one product
  buy <id>                      buy a product
  redeem <code>                 redeem a daily code
  profile                       show balance and session activity
  help                          show this help
  quit | exit                   leave the shell`

var errQuitShell = errors.New("quit shell")

func newShellCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive store session",
		Long:  "Start an interactive store session. Redeemed codes and activity are kept until you log out or leave the shell.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runShell(ctx context.Context, app *app, in io.Reader, out, errOut io.Writer) error {
	if session := app.ledger.Session(); session.Authenticated {
		_, _ = fmt.Fprintf(out, "Welcome back, %s. Type \"help\" for commands.\n", session.UserName)
	} else {
		_, _ = fmt.Fprintln(out, "Welcome to the Punini store. Type \"help\" for commands.")
	}

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "punini> ")
		if !scanner.Scan() {
			break
		}

		err := runShellLine(ctx, app, out, errOut, scanner.Text())
		if errors.Is(err, errQuitShell) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, _ = fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read shell input: %w", err)
	}

	_, _ = fmt.Fprintln(out)
	return nil
}

func runShellLine(ctx context.Context, app *app, out, errOut io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	command, args := strings.ToLower(fields[0]), fields[1:]
	switch command {
	case "quit", "exit":
		return errQuitShell
	case "help":
		_, err := fmt.Fprintln(out, shellHelp)
		return err
	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <username> <password>")
		}
		return runLogin(ctx, app, out, errOut, args[0], args[1])
	case "logout":
		return runLogout(ctx, app, out)
	case "balance":
		return runBalance(app, out)
	case "list":
		return runStoreList(ctx, app, out, parseShellFilter(args), false)
	case "show", "buy":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <id>", command)
		}
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}
		if command == "show" {
			return runStoreShow(ctx, app, out, id, false)
		}
		return runStoreBuy(ctx, app, out, id)
	case "redeem":
		if len(args) != 1 {
			return errors.New("usage: redeem <code>")
		}
		return runRedeem(ctx, app, out, errOut, args[0])
	case "profile":
		return runProfile(app, out, false)
	default:
		return fmt.Errorf("unknown command %q (try \"help\")", command)
	}
}

// parseShellFilter reads an optional leading rarity followed by search words.
func parseShellFilter(args []string) domain.ProductFilter {
	if len(args) == 0 {
		return domain.ProductFilter{}
	}

	rarity, err := domain.ParseRarity(args[0])
	if err != nil {
		return domain.ProductFilter{Query: strings.Join(args, " ")}
	}

	return domain.ProductFilter{Rarity: rarity, Query: strings.Join(args[1:], " ")}
}
