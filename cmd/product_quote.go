package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storefront.GO/config"
	"storefront.GO/service/quote"
)

var (
	quoteSKU    string
	quoteSource string
	quoteAt     string
)

var quoteCmd = &cobra.Command{
	Use:   "products:quote REF",
	Short: "Print a product's effective price and, with --sku, the variation stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if quoteAt != "" {
			var err error
			if at, err = parseAt(quoteAt); err != nil {
				return err
			}
		}
		source := quoteSource
		if source == "" {
			source = config.LoadAppConfig().InventorySource
		}

		db, err := config.NewDB()
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		svc, err := quote.NewService(db)
		if err != nil {
			return err
		}

		start := time.Now()
		q, err := svc.Quote(cmd.Context(), quote.Request{Ref: args[0], SKU: quoteSKU, Source: source, At: at})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(q); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "took %s\n", time.Since(start).Round(time.Microsecond))
		return nil
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteSKU, "sku", "", "Variation SKU to report stock for")
	quoteCmd.Flags().StringVar(&quoteSource, "inventory-source", "", "Inventory source code (default INVENTORY_SOURCE)")
	quoteCmd.Flags().StringVar(&quoteAt, "at", "", "Price at this time (RFC3339 or YYYY-MM-DD)")
	rootCmd.AddCommand(quoteCmd)
}
