// Package quote answers point lookups of a product's current price and a
// variation's stock straight from the database.
package quote

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	productEntity "storefront.GO/model/entity/product"
	inventoryRepo "storefront.GO/model/repository/inventory"
	priceRepo "storefront.GO/model/repository/price"
	productRepo "storefront.GO/model/repository/product"
	"storefront.GO/service/pricing"
)

// ErrNotFound is returned when the product ref is unknown.
var ErrNotFound = errors.New("quote: product not found")

// Quote is the price of one product at At and, when a SKU was asked for,
// its stock.
type Quote struct {
	Ref            string          `json:"ref"`
	At             time.Time       `json:"at"`
	BasePrice      decimal.Decimal `json:"base_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	ActiveRules    int             `json:"active_rules"`
	LowestTier     *string         `json:"lowest_tier,omitempty"`

	SKU        string `json:"sku,omitempty"`
	Source     string `json:"source,omitempty"`
	Stock      int    `json:"stock"`
	StockFound bool   `json:"stock_found"`
	TotalStock int    `json:"total_stock"`
}

// Request selects what to quote. SKU and Source are optional.
type Request struct {
	Ref    string
	SKU    string
	Source string
	At     time.Time
}

// Service runs quotes against one database.
type Service struct {
	products  *productRepo.ProductRepository
	prices    *priceRepo.PriceRepository
	inventory *inventoryRepo.InventoryRepository
	pricing   pricing.Resolver
}

func NewService(db *gorm.DB) (*Service, error) {
	prices, err := priceRepo.NewPriceRepository(db)
	if err != nil {
		return nil, err
	}
	inv, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	return &Service{products: productRepo.NewProductRepository(db), prices: prices, inventory: inv}, nil
}

// Quote fetches price and stock in parallel.
func (s *Service) Quote(ctx context.Context, req Request) (*Quote, error) {
	if req.At.IsZero() {
		req.At = time.Now()
	}
	ids, err := s.products.MapRefsToIDs(ctx, []string{req.Ref})
	if err != nil {
		return nil, err
	}
	id, ok := ids[req.Ref]
	if !ok {
		return nil, ErrNotFound
	}

	q := &Quote{Ref: req.Ref, At: req.At, SKU: req.SKU, Source: req.Source}
	p := productEntity.Product{ID: id}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p.BasePrice, _ = s.prices.GetBasePriceByRef(egCtx, req.Ref)
		if tier, ok := s.prices.GetLowestTierValueByRef(egCtx, req.Ref); ok {
			v := tier.StringFixed(2)
			q.LowestTier = &v
		}
		return nil
	})
	eg.Go(func() error {
		rules, err := s.prices.RulesByProductIDs(egCtx, []uint{id})
		p.PricingRules = rules[id]
		return err
	})
	eg.Go(func() error {
		n, err := s.prices.ActiveRuleCount(egCtx, id, req.At)
		q.ActiveRules = n
		return err
	})
	if req.SKU != "" {
		eg.Go(func() error {
			if req.Source != "" {
				q.Stock, q.StockFound = s.inventory.GetQuantityBySKU(egCtx, req.SKU, req.Source)
			}
			total, err := s.inventory.GetTotalQuantityBySKU(egCtx, req.SKU)
			q.TotalStock = total
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	q.BasePrice = p.BasePrice
	q.EffectivePrice = s.pricing.EffectivePrice(&p, req.At)
	return q, nil
}
