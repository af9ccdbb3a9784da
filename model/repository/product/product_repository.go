package product

import (
	"context"
	"sync"

	"gorm.io/gorm"

	productEntity "storefront.GO/model/entity/product"
)

type ProductRepository struct {
	db *gorm.DB
}

var (
	instance *ProductRepository
	once     sync.Once
)

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetProductRepository returns the process-wide repository bound to the
// first db it is called with.
func GetProductRepository(db *gorm.DB) *ProductRepository {
	once.Do(func() {
		instance = NewProductRepository(db)
	})
	return instance
}

func (r *ProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Variations", func(db *gorm.DB) *gorm.DB { return db.Order("variation_id ASC") }).
		Preload("FeaturedImage").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("review_id ASC") })
}

// FetchPublished returns every published product with variations, featured
// image and reviews, in entity_id order. Pricing rules and tier prices are
// loaded separately through the price repository.
func (r *ProductRepository) FetchPublished(ctx context.Context) ([]productEntity.Product, error) {
	var products []productEntity.Product
	err := r.withRelations(ctx).
		Where("published = ?", true).
		Order("entity_id ASC").
		Find(&products).Error
	return products, err
}

// FetchByIDs returns the requested products in entity_id order, published or not.
func (r *ProductRepository) FetchByIDs(ctx context.Context, ids []uint) ([]productEntity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []productEntity.Product
	err := r.withRelations(ctx).
		Where("entity_id IN ?", ids).
		Order("entity_id ASC").
		Find(&products).Error
	return products, err
}

// MapRefsToIDs resolves product refs to entity ids; unknown refs are absent.
func (r *ProductRepository) MapRefsToIDs(ctx context.Context, refs []string) (map[string]uint, error) {
	result := make(map[string]uint, len(refs))
	if len(refs) == 0 {
		return result, nil
	}
	type row struct {
		ID  uint   `gorm:"column:entity_id"`
		Ref string `gorm:"column:ref"`
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&productEntity.Product{}).
		Select("entity_id, ref").
		Where("ref IN ?", refs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		result[rw.Ref] = rw.ID
	}
	return result, nil
}

// CountPublished returns the number of published products.
func (r *ProductRepository) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&productEntity.Product{}).Where("published = ?", true).Count(&n).Error
	return n, err
}
