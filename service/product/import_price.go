package product

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	priceEntity "storefront.GO/model/entity/price"
	priceRepo "storefront.GO/model/repository/price"
)

var priceColumns = map[string]bool{
	"pricing_rules": true, "tier_prices": true,
}

// priceData holds parsed rules and tiers per product id. A nil slice means
// the column was absent and existing rows stay.
type priceData struct {
	rules    map[uint][]priceEntity.PricingRule
	tiers    map[uint][]priceEntity.TierPrice
	order    []uint
	warnings []string
}

func (d *priceData) ruleCount() int {
	n := 0
	for _, r := range d.rules {
		n += len(r)
	}
	return n
}

func (d *priceData) tierCount() int {
	n := 0
	for _, t := range d.tiers {
		n += len(t)
	}
	return n
}

// collectPrice parses the pricing_rules and tier_prices columns of each group.
func collectPrice(groups []*productGroup, refToID map[string]uint) *priceData {
	d := &priceData{
		rules: make(map[uint][]priceEntity.PricingRule),
		tiers: make(map[uint][]priceEntity.TierPrice),
	}
	if len(groups) == 0 || len(groups[0].rows) == 0 {
		return d
	}
	hasRules := groups[0].rows[0].has("pricing_rules")
	hasTiers := groups[0].rows[0].has("tier_prices")
	if !hasRules && !hasTiers {
		return d
	}

	for _, g := range groups {
		productID, ok := refToID[g.ref]
		if !ok {
			continue
		}
		d.order = append(d.order, productID)
		if hasRules {
			rules, err := ParsePricingRules(firstValue(g, "pricing_rules"))
			if err != nil {
				d.warnings = append(d.warnings, fmt.Sprintf("ref=%s: %v", g.ref, err))
			}
			d.rules[productID] = rules
		}
		if hasTiers {
			tiers, err := ParseTierPrices(firstValue(g, "tier_prices"))
			if err != nil {
				d.warnings = append(d.warnings, fmt.Sprintf("ref=%s: %v", g.ref, err))
			}
			d.tiers[productID] = tiers
		}
	}
	return d
}

// flushPrice replaces the rules and tiers of every collected product, one
// transaction per product.
func flushPrice(ctx context.Context, db *gorm.DB, d *priceData) error {
	if len(d.order) == 0 {
		return nil
	}
	repo, err := priceRepo.NewPriceRepository(db)
	if err != nil {
		return err
	}
	for _, id := range d.order {
		rules, hasRules := d.rules[id]
		tiers, hasTiers := d.tiers[id]
		if hasRules && rules == nil {
			rules = []priceEntity.PricingRule{}
		}
		if hasTiers && tiers == nil {
			tiers = []priceEntity.TierPrice{}
		}
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return repo.ReplaceForProduct(tx, id, rules, tiers)
		})
		if err != nil {
			return fmt.Errorf("price replace product %d: %w", id, err)
		}
	}
	return nil
}

// ParsePricingRules parses "from..to:kind:amount" entries separated by ";".
// from and to are RFC3339 or bare dates; a bare "to" date covers the whole
// day. Malformed entries are skipped and reported in the returned error.
func ParsePricingRules(s string) ([]priceEntity.PricingRule, error) {
	var rules []priceEntity.PricingRule
	var bad []string
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rule, err := parsePricingRule(entry)
		if err != nil {
			bad = append(bad, err.Error())
			continue
		}
		rules = append(rules, rule)
	}
	if len(bad) > 0 {
		return rules, fmt.Errorf("invalid pricing rules: %s", strings.Join(bad, "; "))
	}
	return rules, nil
}

func parsePricingRule(entry string) (priceEntity.PricingRule, error) {
	var rule priceEntity.PricingRule

	i := strings.LastIndex(entry, ":")
	if i < 0 {
		return rule, fmt.Errorf("%q: want from..to:kind:amount", entry)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(entry[i+1:]))
	if err != nil {
		return rule, fmt.Errorf("%q: bad amount", entry)
	}
	rest := entry[:i]
	j := strings.LastIndex(rest, ":")
	if j < 0 {
		return rule, fmt.Errorf("%q: want from..to:kind:amount", entry)
	}
	kind, ok := priceEntity.ParseRuleKind(rest[j+1:])
	if !ok {
		return rule, fmt.Errorf("%q: unknown kind %q", entry, rest[j+1:])
	}
	from, to, ok := strings.Cut(rest[:j], "..")
	if !ok {
		return rule, fmt.Errorf("%q: want from..to window", entry)
	}
	validFrom, _, err := parseTime(strings.TrimSpace(from))
	if err != nil {
		return rule, fmt.Errorf("%q: bad from", entry)
	}
	validTo, dateOnly, err := parseTime(strings.TrimSpace(to))
	if err != nil {
		return rule, fmt.Errorf("%q: bad to", entry)
	}
	if dateOnly {
		validTo = validTo.Add(24*time.Hour - time.Nanosecond)
	}
	rule.ValidFrom = validFrom
	rule.ValidTo = validTo
	rule.Kind = kind
	rule.Amount = amount
	return rule, nil
}

// ParseTierPrices parses "from-to:value" or "from+:value" entries separated
// by ";".
func ParseTierPrices(s string) ([]priceEntity.TierPrice, error) {
	var tiers []priceEntity.TierPrice
	var bad []string
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		band, value, ok := strings.Cut(entry, ":")
		if !ok {
			bad = append(bad, fmt.Sprintf("%q: want from-to:value", entry))
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			bad = append(bad, fmt.Sprintf("%q: bad value", entry))
			continue
		}
		tier := priceEntity.TierPrice{Value: v}
		band = strings.TrimSpace(band)
		if strings.HasSuffix(band, "+") {
			tier.QtyFrom, err = strconv.Atoi(strings.TrimSuffix(band, "+"))
		} else {
			lo, hi, found := strings.Cut(band, "-")
			if !found {
				bad = append(bad, fmt.Sprintf("%q: want from-to:value", entry))
				continue
			}
			tier.QtyFrom, err = strconv.Atoi(strings.TrimSpace(lo))
			if err == nil {
				tier.QtyTo, err = strconv.Atoi(strings.TrimSpace(hi))
			}
		}
		if err != nil {
			bad = append(bad, fmt.Sprintf("%q: bad quantity", entry))
			continue
		}
		tiers = append(tiers, tier)
	}
	if len(bad) > 0 {
		return tiers, fmt.Errorf("invalid tier prices: %s", strings.Join(bad, "; "))
	}
	return tiers, nil
}
