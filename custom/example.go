// Package custom is the extension point for project specific commands,
// cron jobs and snapshot sources. Everything here registers from init().
package custom

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront.GO/cmd"
	"storefront.GO/config"
	"storefront.GO/cron"
	"storefront.GO/model/repository/product"
	"storefront.GO/service/catalog"
	"storefront.GO/service/session"
	"storefront.GO/service/snapshot"
)

func init() {
	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "custom:count",
		Short: "Print the number of published products",
		RunE: func(c *cobra.Command, args []string) error {
			db, err := config.NewDB()
			if err != nil {
				return err
			}
			n, err := product.GetProductRepository(db).CountPublished(c.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Published products: %d\n", n)
			return nil
		},
	})

	// Cron job
	cron.Register("customping", "@every 1h", func(ctx context.Context, args ...string) error {
		fmt.Fprintln(os.Stderr, "Custom cron: ping", args)
		return nil
	})

	// Snapshot source: the database without the inventory overlay, so
	// variation stock comes straight from catalog_product_variation.
	catalog.RegisterSource("db-variations", func(_ context.Context, _ *config.Config, log *zap.Logger) (session.Fetcher, error) {
		db, err := config.NewDB()
		if err != nil {
			return nil, err
		}
		return snapshot.NewDBSource(db, "", log)
	})
}
