package product

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productEntity "storefront.GO/model/entity/product"
)

var mediaColumns = map[string]bool{
	"featured_image": true,
}

// mediaData holds collected featured images ready to flush.
type mediaData struct {
	rows []productEntity.FeaturedImage
}

// collectMedia takes the first featured_image of each group. A value of the
// form "url|label" carries an alt label.
func collectMedia(groups []*productGroup, refToID map[string]uint) *mediaData {
	d := &mediaData{}
	for _, g := range groups {
		productID, ok := refToID[g.ref]
		if !ok {
			continue
		}
		val := firstValue(g, "featured_image")
		if val == "" {
			continue
		}
		url, label, _ := strings.Cut(val, "|")
		d.rows = append(d.rows, productEntity.FeaturedImage{
			ProductID: productID,
			URL:       strings.TrimSpace(url),
			Label:     strings.TrimSpace(label),
		})
	}
	return d
}

// flushMedia upserts featured images on product_id.
func flushMedia(ctx context.Context, db *gorm.DB, d *mediaData, opts ImportOptions) error {
	if len(d.rows) == 0 {
		return nil
	}
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "label"}),
	}
	return db.WithContext(ctx).Clauses(upsert).CreateInBatches(&d.rows, opts.BatchSize).Error
}
