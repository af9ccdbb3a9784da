package facet

import (
	"sort"

	"github.com/shopspring/decimal"

	"storefront.GO/model/entity/product"
)

// sortProducts orders products in place. Every order is stable, so ties keep
// the order in which products were received; Relevance keeps it entirely.
func (e *Engine) sortProducts(products []product.Product, order SortOrder) {
	switch order {
	case SortPriceAsc, SortPriceDesc:
		now := e.now()
		keyed := make([]keyedProduct, len(products))
		for i := range products {
			keyed[i] = keyedProduct{p: products[i], price: e.pricing.EffectivePrice(&products[i], now)}
		}
		desc := order == SortPriceDesc
		sort.SliceStable(keyed, func(i, j int) bool {
			if desc {
				return keyed[i].price.GreaterThan(keyed[j].price)
			}
			return keyed[i].price.LessThan(keyed[j].price)
		})
		for i := range keyed {
			products[i] = keyed[i].p
		}
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return e.collator.Compare(products[i].Name, products[j].Name) < 0
		})
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return e.collator.Compare(products[i].Name, products[j].Name) > 0
		})
	case SortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}

type keyedProduct struct {
	p     product.Product
	price decimal.Decimal
}

// EffectivePrice exposes the engine's pricing at its current clock.
func (e *Engine) EffectivePrice(p *product.Product) decimal.Decimal {
	return e.pricing.EffectivePrice(p, e.now())
}

// Discounted reports whether an active rule changes p's price at the
// engine's current clock.
func (e *Engine) Discounted(p *product.Product) bool {
	return e.pricing.Discounted(p, e.now())
}
