// Package pricing resolves the effective unit price of a product from its
// time-windowed pricing rules, and projects quantity tiers into display bands.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront.GO/model/entity/price"
	"storefront.GO/model/entity/product"
)

var hundred = decimal.NewFromInt(100)

// Resolver computes effective prices. The zero value is ready to use.
type Resolver struct{}

// ActiveRule returns the first rule, in stored order, whose window contains
// now. Later overlapping rules are ignored.
func (Resolver) ActiveRule(p *product.Product, now time.Time) (price.PricingRule, bool) {
	for _, r := range p.PricingRules {
		if r.ActiveAt(now) {
			return r, true
		}
	}
	return price.PricingRule{}, false
}

// EffectivePrice applies at most one active rule to the base price.
// Percentage rules take amount percent off; fixed rules subtract amount.
// Amounts are not range checked, so results may exceed base or go negative.
func (r Resolver) EffectivePrice(p *product.Product, now time.Time) decimal.Decimal {
	rule, ok := r.ActiveRule(p, now)
	if !ok {
		return p.BasePrice
	}
	return Apply(p.BasePrice, rule)
}

// Apply applies a single rule to base. Unknown kinds leave base unchanged.
func Apply(base decimal.Decimal, rule price.PricingRule) decimal.Decimal {
	switch rule.Kind {
	case price.KindPercentage:
		return base.Mul(decimal.NewFromInt(1).Sub(rule.Amount.Div(hundred)))
	case price.KindFixed:
		return base.Sub(rule.Amount)
	}
	return base
}

// Discounted reports whether an active rule changes the price at now.
func (r Resolver) Discounted(p *product.Product, now time.Time) bool {
	return !r.EffectivePrice(p, now).Equal(p.BasePrice)
}
