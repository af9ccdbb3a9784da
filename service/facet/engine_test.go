package facet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront.GO/model/entity/price"
	"storefront.GO/model/entity/product"
	"storefront.GO/service/taxonomy"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func variation(id uint, color, size string, qty int) product.Variation {
	return product.Variation{ID: id, Color: color, Size: size, SKU: color + "-" + size, StockQuantity: qty}
}

func catalog() []product.Product {
	return []product.Product{
		{
			ID: 1, Name: "Classic Tee", CategoryTags: []string{"T-Shirts", "Mens"},
			BasePrice: decimal.NewFromInt(20), Published: true,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Variations: []product.Variation{
				variation(11, "Black", "M", 5),
				variation(12, "Black", "L", 0),
				variation(13, "White", "M", 3),
			},
		},
		{
			ID: 2, Name: "Graphic Tee", CategoryTags: []string{"Graphic Tee"},
			BasePrice: decimal.NewFromInt(25), Published: true,
			CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			Variations: []product.Variation{
				variation(21, "Black", "S", 0),
				variation(22, "Red", "M", 2),
			},
			PricingRules: []price.PricingRule{{
				ValidFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				ValidTo:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
				Kind:      price.KindFixed,
				Amount:    decimal.NewFromInt(10),
			}},
		},
		{
			ID: 3, Name: "Zip Hoodie", CategoryTags: []string{"Hoodies"},
			BasePrice: decimal.NewFromInt(50), Published: true,
			CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Variations: []product.Variation{
				variation(31, "Black", "M", 4),
				variation(32, "Navy", "L", 1),
			},
		},
		{
			ID: 4, Name: "Rainbow Tee", CategoryTags: []string{"t-shirt-collection"},
			BasePrice: decimal.NewFromInt(30), Published: true,
			CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Variations: []product.Variation{
				variation(41, "Rainbow (6)", "M", 0),
				variation(42, "Rainbow (6)", "S", 0),
			},
		},
		{
			ID: 5, Name: "Beanie", CategoryTags: []string{"Caps"},
			BasePrice: decimal.NewFromInt(15), Published: true,
			CreatedAt:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Variations: []product.Variation{variation(51, "Grey", "One Size", 10)},
		},
	}
}

func newEngine() *Engine {
	return NewEngine(Deps{
		Classifier: taxonomy.New(taxonomy.Apparel()),
		Now:        func() time.Time { return fixedNow },
	})
}

func ids(products []product.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func optionValues(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

func optionCount(opts []Option, value string) (int, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o.Count, true
		}
	}
	return 0, false
}

func TestApply_TShirtsBlackInStock(t *testing.T) {
	e := newEngine()
	state := FilterState{Stock: StockIn, Colors: []string{"Black"}}

	res := e.Apply(catalog(), state, "t-shirts")

	require.Len(t, res.Products, 1)
	got := res.Products[0]
	assert.Equal(t, uint(1), got.ID)
	require.Len(t, got.Variations, 1)
	assert.Equal(t, "Black", got.Variations[0].Color)
	assert.Equal(t, 5, got.Variations[0].StockQuantity)
}

func TestApply_DoesNotMutateSnapshot(t *testing.T) {
	e := newEngine()
	products := catalog()
	e.Apply(products, FilterState{Colors: []string{"White"}}, "t-shirts")
	assert.Len(t, products[0].Variations, 3)
}

func TestApply_NoVariationFiltersKeepsVariations(t *testing.T) {
	res := newEngine().Apply(catalog(), DefaultFilterState(), "t-shirts")
	assert.Equal(t, []uint{1, 2, 4}, ids(res.Products))
	assert.Len(t, res.Products[0].Variations, 3)
}

func TestApply_FilteredIsSubsetOfScope(t *testing.T) {
	e := newEngine()
	cls := e.Classifier()
	states := []FilterState{
		DefaultFilterState(),
		{Stock: StockIn},
		{Stock: StockOut},
		{Colors: []string{"Black", "Navy"}},
		{Sizes: []string{"M"}, Stock: StockIn},
		{Types: []string{"hoodies"}},
		{Colors: []string{"Grey"}, Sizes: []string{"One Size"}},
	}
	for _, scope := range []string{"t-shirts", "hoodies", "caps", "all-in-apparel"} {
		for _, st := range states {
			res := e.Apply(catalog(), st, scope)
			for _, p := range res.Products {
				assert.True(t, cls.InScope(p.CategoryTags, scope), "product %d outside scope %s", p.ID, scope)
			}
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	e := newEngine()
	products := catalog()
	state := FilterState{Stock: StockIn, Sizes: []string{"M"}, Sort: SortPriceDesc}

	first := e.Apply(products, state, "all-in-apparel")
	second := e.Apply(products, state, "all-in-apparel")
	assert.Equal(t, first, second)
}

func TestApply_StockLevels(t *testing.T) {
	e := newEngine()

	out := e.Apply(catalog(), FilterState{Stock: StockOut}, "t-shirts")
	require.Equal(t, []uint{4}, ids(out.Products))
	assert.Len(t, out.Products[0].Variations, 2)

	in := e.Apply(catalog(), FilterState{Stock: StockIn}, "t-shirts")
	assert.Equal(t, []uint{1, 2}, ids(in.Products))
	for _, v := range in.Products[1].Variations {
		assert.Greater(t, v.StockQuantity, 0)
	}

	assert.Equal(t, map[StockLevel]int{StockAll: 3, StockIn: 2, StockOut: 1}, in.Counts.Stock)
}

func TestApply_OutOfStockRequiresEveryVariation(t *testing.T) {
	e := newEngine()
	// Classic Tee has Black/L at zero but other variations in stock.
	res := e.Apply(catalog(), FilterState{Stock: StockOut, Sizes: []string{"L"}}, "t-shirts")
	assert.Empty(t, res.Products)
}

func TestApply_TypeFacet(t *testing.T) {
	e := newEngine()
	res := e.Apply(catalog(), FilterState{Types: []string{"hoodies", "caps"}}, "all-in-apparel")
	assert.Equal(t, []uint{3}, ids(res.Products), "only the first type applies")

	counts := res.Counts.Types
	assert.Equal(t, 3, counts["t-shirts"])
	assert.Equal(t, 1, counts["hoodies"])
	assert.Equal(t, 1, counts["caps"])
	assert.Equal(t, 0, counts["bags"])

	n, ok := optionCount(res.Types, "hoodies")
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.True(t, res.Types[1].Selected)
}

func TestApply_CascadingCounts(t *testing.T) {
	e := newEngine()
	before := e.Apply(catalog(), DefaultFilterState(), "t-shirts")
	after := e.Apply(catalog(), FilterState{Colors: []string{"Black"}}, "t-shirts")

	// Toggling color keeps every size option and only recomputes counts.
	assert.ElementsMatch(t, optionValues(before.Sizes), optionValues(after.Sizes))
	m, _ := optionCount(before.Sizes, "M")
	assert.Equal(t, 3, m)
	m, _ = optionCount(after.Sizes, "M")
	assert.Equal(t, 1, m)
	l, _ := optionCount(after.Sizes, "L")
	assert.Equal(t, 1, l)

	// A facet's own selection does not narrow its counts.
	assert.Equal(t, before.Counts.Colors, after.Counts.Colors)
}

func TestApply_CascadingInvariant(t *testing.T) {
	e := newEngine()
	base := FilterState{Sizes: []string{"M"}}
	for _, c := range []string{"Black", "Red", "White", "Rainbow (6)"} {
		toggled := base
		toggled.Colors = Toggle(base.Colors, c)
		res := e.Apply(catalog(), toggled, "t-shirts")

		for _, opt := range e.Apply(catalog(), base, "t-shirts").Sizes {
			n, ok := optionCount(res.Sizes, opt.Value)
			require.True(t, ok, "size %s hidden after toggling %s", opt.Value, c)
			if n > 0 {
				assert.True(t, hasMatch(res.Products, c, ""), "size count positive but no %s product", c)
			}
		}
	}
}

func hasMatch(products []product.Product, color, size string) bool {
	for _, p := range products {
		for _, v := range p.Variations {
			if (color == "" || v.Color == color) && (size == "" || v.Size == size) {
				return true
			}
		}
	}
	return false
}

func TestApply_ColorCountsWithSizeSelected(t *testing.T) {
	res := newEngine().Apply(catalog(), FilterState{Sizes: []string{"M"}}, "t-shirts")
	assert.Equal(t, map[string]int{"Black": 1, "Red": 1, "White": 1, "Rainbow (6)": 1}, res.Counts.Colors)
	assert.Equal(t, []string{"Black", "Red", "White", "Rainbow (6)"}, optionValues(res.Colors))
	assert.True(t, res.Colors[3].MultiColor)
	assert.Equal(t, "#000000", res.Colors[0].Swatch)
}

func TestApply_SelectedOptionAlwaysListed(t *testing.T) {
	res := newEngine().Apply(catalog(), FilterState{Colors: []string{"Teal"}}, "t-shirts")
	assert.Empty(t, res.Products)
	n, ok := optionCount(res.Colors, "Teal")
	require.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestApply_SizeOptionOrder(t *testing.T) {
	res := newEngine().Apply(catalog(), DefaultFilterState(), "all-in-apparel")
	assert.Equal(t, []string{"S", "M", "L", "One Size"}, optionValues(res.Sizes))
}

func TestApply_DuplicateVariationsKept(t *testing.T) {
	products := catalog()
	products[0].Variations = append(products[0].Variations, variation(14, "Black", "M", 1))
	res := newEngine().Apply(products, FilterState{Colors: []string{"Black"}, Sizes: []string{"M"}}, "t-shirts")
	require.NotEmpty(t, res.Products)
	assert.Len(t, res.Products[0].Variations, 2)
}
