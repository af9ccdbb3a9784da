package price

import "github.com/shopspring/decimal"

// TierPrice represents catalog_product_tier_price: a unit price that applies
// from QtyFrom units up to QtyTo units. QtyTo of 0 means open-ended.
type TierPrice struct {
	ValueID   uint            `gorm:"column:value_id;primaryKey;autoIncrement" json:"value_id,omitempty"`
	ProductID uint            `gorm:"column:product_id;index" json:"product_id,omitempty"`
	QtyFrom   int             `gorm:"column:qty_from;not null;default:1" json:"qty_from"`
	QtyTo     int             `gorm:"column:qty_to;not null;default:0" json:"qty_to"`
	Value     decimal.Decimal `gorm:"column:value;type:decimal(20,6);not null;default:0" json:"value"`
}

func (TierPrice) TableName() string {
	return "catalog_product_tier_price"
}

// OpenEnded reports whether the tier has no upper quantity bound.
func (t TierPrice) OpenEnded() bool {
	return t.QtyTo <= 0
}
