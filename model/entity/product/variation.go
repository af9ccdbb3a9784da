package product

// Variation represents catalog_product_variation. Color and Size are raw
// labels; duplicate (Color, Size) pairs on one product are allowed.
type Variation struct {
	ID            uint    `gorm:"column:variation_id;primaryKey;autoIncrement" json:"id"`
	ProductID     uint    `gorm:"column:product_id;index" json:"product_id,omitempty"`
	SKU           string  `gorm:"column:sku;type:varchar(64);uniqueIndex" json:"sku"`
	Color         string  `gorm:"column:color;type:varchar(128)" json:"color"`
	Size          string  `gorm:"column:size;type:varchar(32)" json:"size"`
	ImageURL      *string `gorm:"column:image_url;type:varchar(512)" json:"image_url,omitempty"`
	StockQuantity int     `gorm:"column:stock_qty;not null;default:0" json:"stock_quantity"`
}

func (Variation) TableName() string {
	return "catalog_product_variation"
}
