package product

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventoryEntity "storefront.GO/model/entity/inventory"
	productEntity "storefront.GO/model/entity/product"
	inventoryRepo "storefront.GO/model/repository/inventory"
)

var stockColumns = map[string]bool{
	"sku": true, "color": true, "size": true, "qty": true, "image_url": true,
}

// stockData holds collected variation and inventory rows ready to flush.
type stockData struct {
	variations      []productEntity.Variation
	variationsByRef map[string][]productEntity.Variation
	inventory       []inventoryEntity.InventorySourceItem
	productIDs      []uint
	warnings        []string
}

// collectStock turns every row with a sku into a variation. Later rows win
// when a sku repeats.
func collectStock(groups []*productGroup, refToID map[string]uint, sourceCode string) *stockData {
	d := &stockData{variationsByRef: make(map[string][]productEntity.Variation)}
	seen := make(map[string]int)

	for _, g := range groups {
		productID, ok := refToID[g.ref]
		if !ok {
			continue
		}
		hasVariation := false
		for _, row := range g.rows {
			sku := row.get("sku")
			if sku == "" {
				if row.get("color") != "" || row.get("size") != "" {
					d.warnings = append(d.warnings, fmt.Sprintf("line %d: variation without sku, skipping", row.line))
				}
				continue
			}
			v := productEntity.Variation{
				ProductID: productID,
				SKU:       sku,
				Color:     row.get("color"),
				Size:      row.get("size"),
			}
			if u := row.get("image_url"); u != "" {
				v.ImageURL = &u
			}
			if q := row.get("qty"); q != "" {
				n, err := strconv.Atoi(q)
				if err != nil {
					d.warnings = append(d.warnings, fmt.Sprintf("sku=%s: invalid qty %q", sku, q))
				} else {
					if n < 0 {
						d.warnings = append(d.warnings, fmt.Sprintf("sku=%s: negative qty %d kept", sku, n))
					}
					v.StockQuantity = n
				}
			}

			if i, dup := seen[sku]; dup {
				d.warnings = append(d.warnings, fmt.Sprintf("sku=%s: repeated on line %d, last row wins", sku, row.line))
				d.variations[i] = v
			} else {
				seen[sku] = len(d.variations)
				d.variations = append(d.variations, v)
			}
			hasVariation = true
		}
		if hasVariation {
			d.productIDs = append(d.productIDs, productID)
		}
	}

	idToRef := make(map[uint]string, len(refToID))
	for ref, id := range refToID {
		idToRef[id] = ref
	}
	for _, v := range d.variations {
		ref := idToRef[v.ProductID]
		d.variationsByRef[ref] = append(d.variationsByRef[ref], v)
		if sourceCode != "" {
			d.inventory = append(d.inventory, inventoryEntity.InventorySourceItem{
				SourceCode: sourceCode,
				SKU:        v.SKU,
				Quantity:   v.StockQuantity,
				Status:     1,
			})
		}
	}
	return d
}

// flushVariations upserts variations by sku and removes variations of the
// imported products that the file no longer lists.
func flushVariations(ctx context.Context, db *gorm.DB, d *stockData, opts ImportOptions) error {
	if len(d.variations) == 0 {
		return nil
	}
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"product_id", "color", "size", "image_url", "stock_qty"}),
	}
	rows := make([]productEntity.Variation, len(d.variations))
	copy(rows, d.variations)
	if err := db.WithContext(ctx).Clauses(upsert).CreateInBatches(&rows, opts.BatchSize).Error; err != nil {
		return fmt.Errorf("variation upsert: %w", err)
	}

	skus := make([]string, 0, len(d.variations))
	for _, v := range d.variations {
		skus = append(skus, v.SKU)
	}
	err := db.WithContext(ctx).
		Where("product_id IN ? AND sku NOT IN ?", d.productIDs, skus).
		Delete(&productEntity.Variation{}).Error
	if err != nil {
		return fmt.Errorf("variation cleanup: %w", err)
	}
	return nil
}

// flushInventory writes buffered inventory rows to DB.
func flushInventory(ctx context.Context, db *gorm.DB, d *stockData, opts ImportOptions) error {
	if len(d.inventory) == 0 {
		return nil
	}
	repo, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return err
	}
	if err := repo.Upsert(ctx, d.inventory, opts.BatchSize); err != nil {
		return fmt.Errorf("inventory upsert: %w", err)
	}
	return nil
}

// StockItemInput is the JSON input for a stock-only import.
type StockItemInput struct {
	SKU    string `json:"sku"`
	Qty    *int   `json:"qty"`
	Status *uint8 `json:"status"`
}

// StockImportResult holds the result of a stock import run.
type StockImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportStockJSON updates variation stock by sku and, when sourceCode is set,
// upserts the matching inventory_source_item rows.
func ImportStockJSON(ctx context.Context, db *gorm.DB, items []StockItemInput, sourceCode string, batchSize int) (*StockImportResult, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	result := &StockImportResult{}

	skus := make([]string, 0, len(items))
	for _, it := range items {
		if it.SKU != "" {
			skus = append(skus, it.SKU)
		}
	}

	known := make(map[string]bool, len(skus))
	for i := 0; i < len(skus); i += batchSize {
		end := i + batchSize
		if end > len(skus) {
			end = len(skus)
		}
		var chunk []string
		err := db.WithContext(ctx).Model(&productEntity.Variation{}).Where("sku IN ?", skus[i:end]).Pluck("sku", &chunk).Error
		if err != nil {
			return nil, fmt.Errorf("stock lookup: %w", err)
		}
		for _, s := range chunk {
			known[s] = true
		}
	}

	var rows []inventoryEntity.InventorySourceItem
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			if it.SKU == "" {
				result.Skipped++
				result.Warnings = append(result.Warnings, "empty sku, skipping")
				continue
			}
			if !known[it.SKU] {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("sku=%s: variation not found", it.SKU))
				continue
			}
			if it.Qty == nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, fmt.Sprintf("sku=%s: no qty", it.SKU))
				continue
			}
			if err := tx.Model(&productEntity.Variation{}).Where("sku = ?", it.SKU).Update("stock_qty", *it.Qty).Error; err != nil {
				return fmt.Errorf("stock update %s: %w", it.SKU, err)
			}
			item := inventoryEntity.InventorySourceItem{SourceCode: sourceCode, SKU: it.SKU, Quantity: *it.Qty, Status: 1}
			if it.Status != nil {
				item.Status = *it.Status
			}
			rows = append(rows, item)
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if sourceCode != "" && len(rows) > 0 {
		repo, err := inventoryRepo.NewInventoryRepository(db)
		if err != nil {
			return nil, err
		}
		if err := repo.Upsert(ctx, rows, batchSize); err != nil {
			return nil, fmt.Errorf("inventory upsert: %w", err)
		}
	}
	return result, nil
}
