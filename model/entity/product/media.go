package product

import "time"

// FeaturedImage represents catalog_product_featured_image (at most one per product).
type FeaturedImage struct {
	ImageID   uint   `gorm:"column:image_id;primaryKey;autoIncrement" json:"image_id,omitempty"`
	ProductID uint   `gorm:"column:product_id;uniqueIndex" json:"product_id,omitempty"`
	URL       string `gorm:"column:url;type:varchar(512);not null" json:"url"`
	Label     string `gorm:"column:label;type:varchar(255)" json:"label,omitempty"`
}

func (FeaturedImage) TableName() string {
	return "catalog_product_featured_image"
}

// Review represents catalog_product_review. Rating is 0..5.
type Review struct {
	ReviewID  uint      `gorm:"column:review_id;primaryKey;autoIncrement" json:"review_id,omitempty"`
	ProductID uint      `gorm:"column:product_id;index" json:"product_id,omitempty"`
	Rating    uint8     `gorm:"column:rating;not null;default:0" json:"rating"`
	Author    string    `gorm:"column:author;type:varchar(128)" json:"author"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Review) TableName() string {
	return "catalog_product_review"
}
