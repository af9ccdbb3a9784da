package product

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	productEntity "storefront.GO/model/entity/product"
	productRepo "storefront.GO/model/repository/product"
)

// ImportOptions configures a product import run.
type ImportOptions struct {
	BatchSize int
	// SourceCode receives variation qty as inventory_source_item rows when set.
	SourceCode string
	Logger     *zap.Logger
	Now        func() time.Time
}

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows   int
	Products    int
	Created     int
	Updated     int
	Skipped     int
	Warnings    []string
	Counts      map[string]int
	ProcessTime time.Duration
	DBTime      time.Duration
	TotalTime   time.Duration
}

var productColumns = map[string]bool{
	"product_ref": true, "name": true, "description": true, "category_tags": true,
	"base_price": true, "published": true, "created_at": true,
}

// knownColumns returns all column names handled by any module.
func knownColumns() map[string]bool {
	known := make(map[string]bool)
	for _, set := range []map[string]bool{productColumns, stockColumns, mediaColumns, priceColumns} {
		for col := range set {
			known[col] = true
		}
	}
	return known
}

// csvRow gives named access to one CSV record.
type csvRow struct {
	line     int
	fields   []string
	colIndex map[string]int
}

func (r csvRow) get(col string) string {
	ci, ok := r.colIndex[col]
	if !ok || ci >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[ci])
}

func (r csvRow) has(col string) bool {
	_, ok := r.colIndex[col]
	return ok
}

// productGroup is every row of one product_ref, in file order.
type productGroup struct {
	ref  string
	rows []csvRow
}

// ImportProducts reads CSV data from r, one row per variation, and upserts
// products, variations, pricing rules, tier prices, featured images and
// inventory rows.
func ImportProducts(ctx context.Context, db *gorm.DB, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	startTotal := time.Now()

	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// Parse CSV header
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		colIndex[h] = i
	}
	if _, ok := colIndex["product_ref"]; !ok {
		return nil, fmt.Errorf("CSV must contain a 'product_ref' column")
	}

	result := &ImportResult{Counts: make(map[string]int)}

	// Warn about unknown columns
	known := knownColumns()
	for h := range colIndex {
		if !known[h] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("column %q: unknown, skipping", h))
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV rows: %w", err)
	}
	result.TotalRows = len(records)

	startProcess := time.Now()
	groups := groupRows(records, colIndex, result)

	products := make([]productEntity.Product, 0, len(groups))
	for _, g := range groups {
		p, warnings := buildProduct(g, opts.Now)
		result.Warnings = append(result.Warnings, warnings...)
		products = append(products, p)
	}
	result.Products = len(products)

	repo := productRepo.NewProductRepository(db)
	refs := make([]string, 0, len(groups))
	for _, g := range groups {
		refs = append(refs, g.ref)
	}
	existing, err := repo.MapRefsToIDs(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("lookup refs: %w", err)
	}

	startDB := time.Now()
	if err := upsertProducts(ctx, db, products, updateColumns(colIndex), opts); err != nil {
		return nil, err
	}
	refToID, err := repo.MapRefsToIDs(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("lookup refs: %w", err)
	}
	for _, ref := range refs {
		if _, ok := existing[ref]; ok {
			result.Updated++
		} else {
			result.Created++
		}
	}

	// Collect data for each module
	stock := collectStock(groups, refToID, opts.SourceCode)
	media := collectMedia(groups, refToID)
	prices := collectPrice(groups, refToID)
	result.Warnings = append(result.Warnings, stock.warnings...)
	result.Warnings = append(result.Warnings, prices.warnings...)

	for i := range products {
		products[i].ID = refToID[products[i].Ref]
		products[i].Variations = stock.variationsByRef[products[i].Ref]
		if err := products[i].Validate(); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		}
	}

	// Variations must exist before inventory rows reference their SKUs.
	if err := flushVariations(ctx, db, stock, opts); err != nil {
		return nil, err
	}

	// Flush the remaining modules in parallel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return flushInventory(gctx, db, stock, opts) })
	g.Go(func() error { return flushMedia(gctx, db, media, opts) })
	g.Go(func() error { return flushPrice(gctx, db, prices) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.DBTime = time.Since(startDB)

	result.Counts["products"] = len(products)
	result.Counts["variations"] = len(stock.variations)
	result.Counts["inventory"] = len(stock.inventory)
	result.Counts["featured_image"] = len(media.rows)
	result.Counts["pricing_rule"] = prices.ruleCount()
	result.Counts["tier_price"] = prices.tierCount()

	result.ProcessTime = time.Since(startProcess)
	result.TotalTime = time.Since(startTotal)

	opts.Logger.Info("product import finished",
		zap.Int("rows", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("took", result.TotalTime))
	return result, nil
}

// groupRows buckets records by product_ref in first-seen order.
func groupRows(records [][]string, colIndex map[string]int, result *ImportResult) []*productGroup {
	var groups []*productGroup
	byRef := make(map[string]*productGroup)
	for i, rec := range records {
		row := csvRow{line: i + 2, fields: rec, colIndex: colIndex}
		ref := row.get("product_ref")
		if ref == "" {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: empty product_ref, skipping", row.line))
			continue
		}
		g, ok := byRef[ref]
		if !ok {
			g = &productGroup{ref: ref}
			byRef[ref] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, row)
	}
	return groups
}

// firstValue returns the first non-empty value of col across a group.
func firstValue(g *productGroup, col string) string {
	for _, row := range g.rows {
		if v := row.get(col); v != "" {
			return v
		}
	}
	return ""
}

// buildProduct reads the product-level columns of a group. The first
// non-empty value of each column wins.
func buildProduct(g *productGroup, now func() time.Time) (productEntity.Product, []string) {
	var warnings []string
	p := productEntity.Product{Ref: g.ref, Name: firstValue(g, "name"), Description: firstValue(g, "description")}
	if p.Name == "" {
		p.Name = g.ref
	}
	p.CategoryTags = splitTags(firstValue(g, "category_tags"))

	p.BasePrice = decimal.Zero
	if v := firstValue(g, "base_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ref=%s: invalid base_price %q", g.ref, v))
		} else {
			p.BasePrice = d
		}
	}

	if v := firstValue(g, "published"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ref=%s: invalid published %q", g.ref, v))
		}
		p.Published = b
	}

	p.CreatedAt = now()
	if v := firstValue(g, "created_at"); v != "" {
		t, _, err := parseTime(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ref=%s: invalid created_at %q", g.ref, v))
		} else {
			p.CreatedAt = t
		}
	}
	return p, warnings
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, "|") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// parseTime accepts RFC3339 or a bare date. dateOnly reports the latter.
func parseTime(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = time.Parse(time.DateOnly, s)
	return t, err == nil, err
}

// updateColumns lists the product columns an existing row takes from the
// file: only those present in the header.
func updateColumns(colIndex map[string]int) []string {
	var cols []string
	for _, c := range []string{"name", "description", "category_tags", "base_price", "published"} {
		if _, ok := colIndex[c]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// upsertProducts writes product rows keyed by ref, leaving associations to
// the module flushes.
func upsertProducts(ctx context.Context, db *gorm.DB, products []productEntity.Product, cols []string, opts ImportOptions) error {
	if len(products) == 0 {
		return nil
	}
	rows := make([]productEntity.Product, len(products))
	copy(rows, products)
	upsert := clause.OnConflict{Columns: []clause.Column{{Name: "ref"}}}
	if len(cols) == 0 {
		upsert.DoNothing = true
	} else {
		upsert.DoUpdates = clause.AssignmentColumns(cols)
	}
	err := db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Omit(clause.Associations).
		Clauses(upsert).
		CreateInBatches(&rows, opts.BatchSize).Error
	if err != nil {
		return fmt.Errorf("product upsert: %w", err)
	}
	return nil
}
