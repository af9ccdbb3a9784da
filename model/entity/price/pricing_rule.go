package price

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RuleKind discriminates how a pricing rule amount is applied.
type RuleKind string

const (
	KindPercentage RuleKind = "percentage"
	KindFixed      RuleKind = "fixed"
)

// ParseRuleKind accepts the stored values plus the common short forms.
func ParseRuleKind(s string) (RuleKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "percentage", "percent", "pct", "%":
		return KindPercentage, true
	case "fixed", "amount", "flat":
		return KindFixed, true
	}
	return "", false
}

// PricingRule represents catalog_product_pricing_rule. Rules keep the order in
// which they were stored (Position); overlapping windows are allowed.
type PricingRule struct {
	RuleID    uint            `gorm:"column:rule_id;primaryKey;autoIncrement" json:"rule_id,omitempty"`
	ProductID uint            `gorm:"column:product_id;index" json:"product_id,omitempty"`
	Position  int             `gorm:"column:position;not null;default:0" json:"position"`
	ValidFrom time.Time       `gorm:"column:valid_from;not null" json:"valid_from"`
	ValidTo   time.Time       `gorm:"column:valid_to;not null" json:"valid_to"`
	Kind      RuleKind        `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(20,6);not null;default:0" json:"amount"`
}

func (PricingRule) TableName() string {
	return "catalog_product_pricing_rule"
}

// ActiveAt reports whether t falls inside the rule window, both ends inclusive.
func (r PricingRule) ActiveAt(t time.Time) bool {
	return !t.Before(r.ValidFrom) && !t.After(r.ValidTo)
}
