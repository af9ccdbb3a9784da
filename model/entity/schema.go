package entity

import (
	"gorm.io/gorm"

	"storefront.GO/model/entity/inventory"
	"storefront.GO/model/entity/price"
	"storefront.GO/model/entity/product"
)

// Models lists every catalog table in migration order.
func Models() []any {
	return []any{
		&product.Product{},
		&product.Variation{},
		&product.FeaturedImage{},
		&product.Review{},
		&price.PricingRule{},
		&price.TierPrice{},
		&inventory.InventorySourceItem{},
	}
}

// AutoMigrate creates or updates the catalog schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
