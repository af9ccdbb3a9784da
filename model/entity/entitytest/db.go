// Package entitytest opens migrated in-memory catalog databases for tests.
package entitytest

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	entity "storefront.GO/model/entity"
	"storefront.GO/model/entity/inventory"
	"storefront.GO/model/entity/price"
	"storefront.GO/model/entity/product"
)

// SourceCode is the inventory source used by Seed.
const SourceCode = "default"

// Open returns a migrated in-memory sqlite database. One connection keeps
// every query on the same in-memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Seeded holds the ids Seed created.
type Seeded struct {
	Tee, Hoodie, Draft uint
}

// Seed writes two published products, one draft and inventory rows for the
// default source.
func Seed(t testing.TB, db *gorm.DB) Seeded {
	t.Helper()
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	tee := product.Product{
		Ref: "tee-classic", Name: "Classic Tee", CategoryTags: []string{"T-Shirts", "Mens"},
		BasePrice: decimal.NewFromInt(20), Published: true, CreatedAt: jan,
		Variations: []product.Variation{
			{SKU: "TEE-BLK-M", Color: "Black", Size: "M", StockQuantity: 5},
			{SKU: "TEE-WHT-L", Color: "White", Size: "L", StockQuantity: 0},
		},
		FeaturedImage: &product.FeaturedImage{URL: "https://cdn.example.com/tee.jpg", Label: "front"},
		Reviews: []product.Review{
			{Rating: 4, Author: "ana", CreatedAt: jan},
			{Rating: 5, Author: "ben", CreatedAt: jan},
		},
	}
	hoodie := product.Product{
		Ref: "hoodie-zip", Name: "Zip Hoodie", CategoryTags: []string{"Hoodies"},
		BasePrice: decimal.NewFromInt(45), Published: true, CreatedAt: jan.AddDate(0, 1, 0),
		Variations: []product.Variation{{SKU: "HOOD-BLK-M", Color: "Black", Size: "M", StockQuantity: 2}},
	}
	draft := product.Product{
		Ref: "cap-draft", Name: "Draft Cap", CategoryTags: []string{"Caps"},
		BasePrice: decimal.NewFromInt(12), Published: false, CreatedAt: jan,
		Variations: []product.Variation{{SKU: "CAP-GRY", Color: "Grey", Size: "One Size", StockQuantity: 1}},
	}
	for _, p := range []*product.Product{&tee, &hoodie, &draft} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed product %s: %v", p.Ref, err)
		}
	}

	rules := []price.PricingRule{
		{ProductID: tee.ID, Position: 1, ValidFrom: jan, ValidTo: jan.AddDate(0, 1, 14), Kind: price.KindPercentage, Amount: decimal.NewFromInt(50)},
		{ProductID: tee.ID, Position: 0, ValidFrom: jan, ValidTo: jan.AddDate(0, 0, 30), Kind: price.KindFixed, Amount: decimal.NewFromInt(5)},
	}
	tiers := []price.TierPrice{
		{ProductID: tee.ID, QtyFrom: 25, QtyTo: 100, Value: decimal.NewFromInt(17)},
		{ProductID: tee.ID, QtyFrom: 1, QtyTo: 24, Value: decimal.NewFromInt(19)},
	}
	items := []inventory.InventorySourceItem{
		{SourceCode: SourceCode, SKU: "TEE-BLK-M", Quantity: 0, Status: 1},
		{SourceCode: SourceCode, SKU: "TEE-WHT-L", Quantity: 7, Status: 1},
		{SourceCode: SourceCode, SKU: "HOOD-BLK-M", Quantity: 3, Status: 0},
		{SourceCode: "warehouse", SKU: "TEE-BLK-M", Quantity: 9, Status: 1},
	}
	for _, v := range []any{&rules, &tiers, &items} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	// status has a column default, so a zero value is skipped on insert.
	if err := db.Model(&inventory.InventorySourceItem{}).
		Where("source_code = ? AND sku = ?", SourceCode, "HOOD-BLK-M").
		Update("status", 0).Error; err != nil {
		t.Fatalf("seed status: %v", err)
	}
	return Seeded{Tee: tee.ID, Hoodie: hoodie.ID, Draft: draft.ID}
}
