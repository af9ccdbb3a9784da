package inventory

// InventorySourceItem represents inventory_source_item: stock of one variation
// SKU at one source. Status 1 means the row is sellable.
type InventorySourceItem struct {
	SourceItemID uint   `gorm:"column:source_item_id;primaryKey;autoIncrement" json:"source_item_id,omitempty"`
	SourceCode   string `gorm:"column:source_code;type:varchar(255);not null;uniqueIndex:idx_source_sku" json:"source_code"`
	SKU          string `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_source_sku" json:"sku"`
	Quantity     int    `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Status       uint8  `gorm:"column:status;type:smallint unsigned;not null;default:1" json:"status"`
}

func (InventorySourceItem) TableName() string {
	return "inventory_source_item"
}
