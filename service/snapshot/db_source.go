// Package snapshot provides the catalog snapshot sources a session loads
// from: the catalog database, the search index, and a two-level cache in
// front of either.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront.GO/model/entity/product"
	inventoryRepo "storefront.GO/model/repository/inventory"
	priceRepo "storefront.GO/model/repository/price"
	productRepo "storefront.GO/model/repository/product"
)

// DBSource loads published products from the catalog database. Scope is not
// pushed down: the facet engine classifies every product itself.
type DBSource struct {
	products   *productRepo.ProductRepository
	prices     *priceRepo.PriceRepository
	inventory  *inventoryRepo.InventoryRepository
	sourceCode string
	log        *zap.Logger
}

// NewDBSource builds a DBSource. When sourceCode is non-empty, variation
// stock is overlaid from inventory_source_item rows of that source.
func NewDBSource(db *gorm.DB, sourceCode string, log *zap.Logger) (*DBSource, error) {
	prices, err := priceRepo.NewPriceRepository(db)
	if err != nil {
		return nil, fmt.Errorf("snapshot: price repository: %w", err)
	}
	inv, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, fmt.Errorf("snapshot: inventory repository: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DBSource{
		products:   productRepo.NewProductRepository(db),
		prices:     prices,
		inventory:  inv,
		sourceCode: sourceCode,
		log:        log,
	}, nil
}

func (s *DBSource) FetchSnapshot(ctx context.Context, scope string) ([]product.Product, error) {
	start := time.Now()
	products, err := s.products.FetchPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load products: %w", err)
	}

	ids := make([]uint, 0, len(products))
	var skus []string
	for _, p := range products {
		ids = append(ids, p.ID)
		for _, v := range p.Variations {
			if v.SKU != "" {
				skus = append(skus, v.SKU)
			}
		}
	}

	rules, err := s.prices.RulesByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load pricing rules: %w", err)
	}
	tiers, err := s.prices.TierPricesByProductIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load tier prices: %w", err)
	}

	var stock map[string]int
	if s.sourceCode != "" {
		stock, err = s.inventory.BatchGetQuantities(ctx, skus, s.sourceCode)
		if err != nil {
			return nil, fmt.Errorf("snapshot: load stock: %w", err)
		}
	}

	for i := range products {
		p := &products[i]
		p.PricingRules = rules[p.ID]
		p.TierPrices = tiers[p.ID]
		for j := range p.Variations {
			if qty, ok := stock[p.Variations[j].SKU]; ok {
				p.Variations[j].StockQuantity = qty
			}
		}
		if err := p.Validate(); err != nil {
			s.log.Warn("invalid product in snapshot", zap.Error(err))
		}
	}

	s.log.Debug("db snapshot loaded",
		zap.String("scope", scope),
		zap.Int("products", len(products)),
		zap.Int("stock_rows", len(stock)),
		zap.Duration("took", time.Since(start)))
	return products, nil
}
