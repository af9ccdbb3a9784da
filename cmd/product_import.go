package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storefront.GO/config"
	productService "storefront.GO/service/product"
)

var (
	importFile      string
	importBatch     int
	importSource    string
	importNoSource  bool
	importKeepCache bool
)

var importCmd = &cobra.Command{
	Use:   "products:import",
	Short: "Import products, variations, images and pricing from CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open CSV: %w", err)
		}
		defer f.Close()

		log, err := config.NewLogger()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		db, err := config.NewDB()
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}

		res, err := productService.ImportProducts(cmd.Context(), db, f, productService.ImportOptions{
			BatchSize:  importBatch,
			SourceCode: inventorySource(),
			Logger:     log,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if !importKeepCache {
			invalidateShared(cmd.Context(), log)
		}

		w := cmd.OutOrStdout()
		for _, warn := range res.Warnings {
			fmt.Fprintf(w, "  [warn] %s\n", warn)
		}
		fmt.Fprintf(w, `
=== Import Report ===
CSV rows:       %d
Products:       %d
Created:        %d
Updated:        %d
Skipped:        %d
Variations:     %d
Inventory rows: %d
Images:         %d
Pricing rules:  %d
Tier prices:    %d
Total time:     %s
  - Processing: %s
  - DB upsert:  %s
=====================
`, res.TotalRows, res.Products, res.Created, res.Updated, res.Skipped,
			res.Counts["variations"], res.Counts["inventory"], res.Counts["featured_image"],
			res.Counts["pricing_rule"], res.Counts["tier_price"],
			res.TotalTime.Round(time.Millisecond),
			res.ProcessTime.Round(time.Millisecond),
			res.DBTime.Round(time.Millisecond))
		return nil
	},
}

var stockCmd = &cobra.Command{
	Use:   "products:stock",
	Short: `Update variation stock from a JSON array of {"sku","qty","status"}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("read JSON: %w", err)
		}
		var items []productService.StockItemInput
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}

		log, err := config.NewLogger()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		db, err := config.NewDB()
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		res, err := productService.ImportStockJSON(cmd.Context(), db, items, inventorySource(), importBatch)
		if err != nil {
			return fmt.Errorf("stock import failed: %w", err)
		}
		if !importKeepCache {
			invalidateShared(cmd.Context(), log)
		}
		for _, warn := range res.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "  [warn] %s\n", warn)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stock updated: %d, skipped: %d\n", res.Imported, res.Skipped)
		return nil
	},
}

func inventorySource() string {
	if importNoSource {
		return ""
	}
	if importSource != "" {
		return importSource
	}
	return config.LoadAppConfig().InventorySource
}

func init() {
	for _, c := range []*cobra.Command{importCmd, stockCmd} {
		c.Flags().StringVarP(&importFile, "file", "f", "", "Input file path (required)")
		_ = c.MarkFlagRequired("file")
		c.Flags().IntVar(&importBatch, "batch-size", 500, "Batch size for DB operations")
		c.Flags().StringVar(&importSource, "inventory-source", "", "Inventory source code (default INVENTORY_SOURCE)")
		c.Flags().BoolVar(&importNoSource, "no-inventory", false, "Do not write inventory_source_item rows")
		c.Flags().BoolVar(&importKeepCache, "keep-cache", false, "Do not invalidate cached snapshots after import")
		rootCmd.AddCommand(c)
	}
}
