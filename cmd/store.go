package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/punini-cli/internal/adapters/render/storefront"
	"github.com/bnema/punini-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newStoreCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Browse and buy from the catalog",
	}

	cmd.AddCommand(
		newStoreListCmd(app),
		newStoreShowCmd(app),
		newStoreBuyCmd(app),
	)

	return cmd
}

func newStoreListCmd(app *app) *cobra.Command {
	var search string
	var rarity string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseRarity(rarity)
			if err != nil {
				return err
			}

			return runStoreList(cmd.Context(), app, cmd.OutOrStdout(), domain.ProductFilter{Query: search, Rarity: parsed}, asJSON)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive name search")
	cmd.Flags().StringVarP(&rarity, "rarity", "r", domain.RarityAll, "Rarity filter: all, common, rare, epic or legendary")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newStoreShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product and whether you can afford it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}

			return runStoreShow(cmd.Context(), app, cmd.OutOrStdout(), id, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newStoreBuyCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy a product with coins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}

			return runStoreBuy(cmd.Context(), app, cmd.OutOrStdout(), id)
		},
	}
}

func runStoreList(ctx context.Context, app *app, out io.Writer, filter domain.ProductFilter, asJSON bool) error {
	products, err := app.store.Browse(ctx, filter)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, products)
	}

	session := app.ledger.Session()
	rendered, err := storefront.RenderCatalog(products, storefront.CatalogOptions{
		Filter:   filter,
		Balance:  session.Balance,
		SignedIn: session.Authenticated,
	})
	if err != nil {
		return fmt.Errorf("render catalog: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}

func runStoreShow(ctx context.Context, app *app, out io.Writer, id domain.ProductID, asJSON bool) error {
	view, err := app.store.Product(ctx, id)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, view)
	}

	rendered, err := storefront.RenderProduct(view)
	if err != nil {
		return fmt.Errorf("render product: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}

func runStoreBuy(ctx context.Context, app *app, out io.Writer, id domain.ProductID) error {
	product, err := app.store.Buy(ctx, id)
	if err != nil {
		return ledgerError(fmt.Sprintf("buy product %d", id), err)
	}

	balance := app.ledger.Session().Balance
	_, err = fmt.Fprintf(out, "Purchased %s for %s. Balance: %s\n",
		product.Name, storefront.FormatCoins(product.Price), storefront.FormatCoins(balance))
	return err
}

func parseProductID(raw string) (domain.ProductID, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}

	return domain.ProductID(id), nil
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
