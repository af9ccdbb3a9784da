package price

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	priceEntity "storefront.GO/model/entity/price"
)

type PriceRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewPriceRepository(db *gorm.DB) (*PriceRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &PriceRepository{db: db, sqlDB: sqlDB}, nil
}

// RulesByProductIDs returns pricing rules grouped by product, each group in
// stored order (position, then rule_id). Order matters: the first active
// rule wins.
func (r *PriceRepository) RulesByProductIDs(ctx context.Context, ids []uint) (map[uint][]priceEntity.PricingRule, error) {
	result := make(map[uint][]priceEntity.PricingRule)
	if len(ids) == 0 {
		return result, nil
	}
	var rules []priceEntity.PricingRule
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("product_id ASC, position ASC, rule_id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		result[rule.ProductID] = append(result[rule.ProductID], rule)
	}
	return result, nil
}

// TierPricesByProductIDs returns tier prices grouped by product, ordered by
// qty_from.
func (r *PriceRepository) TierPricesByProductIDs(ctx context.Context, ids []uint) (map[uint][]priceEntity.TierPrice, error) {
	result := make(map[uint][]priceEntity.TierPrice)
	if len(ids) == 0 {
		return result, nil
	}
	var tiers []priceEntity.TierPrice
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("product_id ASC, qty_from ASC, value_id ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	for _, t := range tiers {
		result[t.ProductID] = append(result[t.ProductID], t)
	}
	return result, nil
}

// ActiveRuleCount returns how many rules of a product cover at. More than one
// means overlapping windows, resolved by stored order.
func (r *PriceRepository) ActiveRuleCount(ctx context.Context, productID uint, at time.Time) (int, error) {
	rules, err := r.RulesByProductIDs(ctx, []uint{productID})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rule := range rules[productID] {
		if rule.ActiveAt(at) {
			n++
		}
	}
	return n, nil
}

// GetBasePriceByRef returns only the base price.
// Uses raw SQL for minimal overhead.
func (r *PriceRepository) GetBasePriceByRef(ctx context.Context, ref string) (decimal.Decimal, bool) {
	const query = `SELECT base_price FROM catalog_product WHERE ref = ? LIMIT 1`
	var price decimal.NullDecimal
	if err := r.sqlDB.QueryRowContext(ctx, query, ref).Scan(&price); err != nil || !price.Valid {
		return decimal.Zero, false
	}
	return price.Decimal, true
}

// GetLowestTierValueByRef returns the cheapest tier price of a product.
func (r *PriceRepository) GetLowestTierValueByRef(ctx context.Context, ref string) (decimal.Decimal, bool) {
	const query = `
		SELECT MIN(t.value)
		FROM catalog_product p
		JOIN catalog_product_tier_price t ON t.product_id = p.entity_id
		WHERE p.ref = ?
	`
	var price decimal.NullDecimal
	if err := r.sqlDB.QueryRowContext(ctx, query, ref).Scan(&price); err != nil || !price.Valid {
		return decimal.Zero, false
	}
	return price.Decimal, true
}

// ReplaceForProduct swaps the rules and tiers of one product inside tx. A nil
// slice leaves that kind untouched; an empty one clears it.
func (r *PriceRepository) ReplaceForProduct(tx *gorm.DB, productID uint, rules []priceEntity.PricingRule, tiers []priceEntity.TierPrice) error {
	if rules != nil {
		if err := tx.Where("product_id = ?", productID).Delete(&priceEntity.PricingRule{}).Error; err != nil {
			return err
		}
		for i := range rules {
			rules[i].RuleID = 0
			rules[i].ProductID = productID
			rules[i].Position = i
		}
		if len(rules) > 0 {
			if err := tx.Create(&rules).Error; err != nil {
				return err
			}
		}
	}
	if tiers != nil {
		if err := tx.Where("product_id = ?", productID).Delete(&priceEntity.TierPrice{}).Error; err != nil {
			return err
		}
		for i := range tiers {
			tiers[i].ValueID = 0
			tiers[i].ProductID = productID
		}
		if len(tiers) > 0 {
			if err := tx.Create(&tiers).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
