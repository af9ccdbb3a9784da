package inventory

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventoryEntity "storefront.GO/model/entity/inventory"
)

type InventoryRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{db: db, sqlDB: sqlDB}, nil
}

// GetQuantityBySKU returns stock quantity for SKU from specific source
// Uses raw SQL for minimal overhead
func (r *InventoryRepository) GetQuantityBySKU(ctx context.Context, sku, sourceCode string) (int, bool) {
	const query = `SELECT quantity FROM inventory_source_item WHERE sku = ? AND source_code = ? LIMIT 1`
	var qty sql.NullInt64
	if err := r.sqlDB.QueryRowContext(ctx, query, sku, sourceCode).Scan(&qty); err != nil || !qty.Valid {
		return 0, false
	}
	return int(qty.Int64), true
}

// GetBySourceAndSKU returns full entity using GORM
func (r *InventoryRepository) GetBySourceAndSKU(ctx context.Context, sourceCode, sku string) (*inventoryEntity.InventorySourceItem, error) {
	var item inventoryEntity.InventorySourceItem
	err := r.db.WithContext(ctx).Where("source_code = ? AND sku = ?", sourceCode, sku).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetTotalQuantityBySKU sums quantity across all sources for a SKU
func (r *InventoryRepository) GetTotalQuantityBySKU(ctx context.Context, sku string) (int, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM inventory_source_item WHERE sku = ?`
	var total int
	err := r.sqlDB.QueryRowContext(ctx, query, sku).Scan(&total)
	return total, err
}

// BatchGetQuantities fetches quantities for multiple SKUs in one query.
// Rows with status 0 are reported as zero stock.
func (r *InventoryRepository) BatchGetQuantities(ctx context.Context, skus []string, sourceCode string) (map[string]int, error) {
	result := make(map[string]int, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	rows, err := r.db.WithContext(ctx).Table("inventory_source_item").
		Select("sku, quantity, status").
		Where("source_code = ? AND sku IN ?", sourceCode, skus).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sku string
		var qty int
		var status uint8
		if err := rows.Scan(&sku, &qty, &status); err != nil {
			continue
		}
		if status == 0 {
			qty = 0
		}
		result[sku] = qty
	}
	return result, rows.Err()
}

// Upsert writes source items, updating quantity and status on (source_code, sku).
// Columns are selected explicitly so a zero status is written as given.
func (r *InventoryRepository) Upsert(ctx context.Context, items []inventoryEntity.InventorySourceItem, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return r.db.WithContext(ctx).Select("source_code", "sku", "quantity", "status").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_code"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "status"}),
	}).CreateInBatches(&items, batchSize).Error
}
