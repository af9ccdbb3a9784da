package product

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"storefront.GO/model/entity/price"
)

// ErrPublishedWithoutVariations flags a published product that cannot be sold.
var ErrPublishedWithoutVariations = errors.New("published product has no variations")

// Product represents catalog_product. CategoryTags are raw, free-form labels
// as entered by merchandisers; the taxonomy classifier interprets them.
type Product struct {
	ID            uint                        `gorm:"column:entity_id;primaryKey;autoIncrement" json:"id"`
	Ref           string                      `gorm:"column:ref;type:varchar(64);uniqueIndex" json:"ref,omitempty"`
	Name          string                      `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description   string                      `gorm:"column:description;type:text" json:"description,omitempty"`
	CategoryTags  datatypes.JSONSlice[string] `gorm:"column:category_tags" json:"category_tags"`
	BasePrice     decimal.Decimal             `gorm:"column:base_price;type:decimal(20,6);not null;default:0" json:"base_price"`
	Published     bool                        `gorm:"column:published;not null;default:false" json:"published"`
	CreatedAt     time.Time                   `gorm:"column:created_at" json:"created_at"`
	Variations    []Variation                 `gorm:"foreignKey:ProductID;references:ID" json:"variations"`
	FeaturedImage *FeaturedImage              `gorm:"foreignKey:ProductID;references:ID" json:"featured_image,omitempty"`
	PricingRules  []price.PricingRule         `gorm:"foreignKey:ProductID;references:ID" json:"pricing_rules,omitempty"`
	TierPrices    []price.TierPrice           `gorm:"foreignKey:ProductID;references:ID" json:"tier_prices,omitempty"`
	Reviews       []Review                    `gorm:"foreignKey:ProductID;references:ID" json:"reviews,omitempty"`
}

func (Product) TableName() string {
	return "catalog_product"
}

// Validate reports write-side invariant violations. Read paths tolerate them.
func (p *Product) Validate() error {
	if p.Published && len(p.Variations) == 0 {
		return fmt.Errorf("product %d (%s): %w", p.ID, p.Name, ErrPublishedWithoutVariations)
	}
	return nil
}

// InStock reports whether any variation has positive stock.
func (p *Product) InStock() bool {
	for _, v := range p.Variations {
		if v.StockQuantity > 0 {
			return true
		}
	}
	return false
}

// AverageRating returns the mean review rating and the number of reviews.
func (p *Product) AverageRating() (float64, int) {
	if len(p.Reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += int(r.Rating)
	}
	return float64(sum) / float64(len(p.Reviews)), len(p.Reviews)
}
