// Package facet filters a product snapshot by scope, type, stock, color and
// size, computes cascading facet option counts and sorts the result.
package facet

import (
	"time"

	"storefront.GO/core/collate"
	"storefront.GO/model/entity/product"
	"storefront.GO/service/color"
	"storefront.GO/service/pricing"
	"storefront.GO/service/taxonomy"
)

// Option is one selectable value of a facet. Count is the number of
// products that would match if this value were the facet's only selection,
// with every other facet held at its current selection.
type Option struct {
	Value      string
	Count      int
	Selected   bool
	Swatch     string
	MultiColor bool
}

// Counts maps option values to product counts, per facet.
type Counts struct {
	Colors map[string]int
	Sizes  map[string]int
	Types  map[string]int
	Stock  map[StockLevel]int
}

// Result is the derived view of one Apply call. Products carry only the
// variations that matched the active variation-level filters.
type Result struct {
	Products []product.Product
	Counts   Counts
	Colors   []Option
	Sizes    []Option
	Types    []Option
}

// Deps configures an Engine. Classifier is required.
type Deps struct {
	Classifier *taxonomy.Classifier
	Collator   *collate.Comparator
	Pricing    pricing.Resolver
	Now        func() time.Time
}

// Engine is stateless apart from its dependencies and safe for concurrent use.
type Engine struct {
	classifier *taxonomy.Classifier
	collator   *collate.Comparator
	pricing    pricing.Resolver
	now        func() time.Time
}

func NewEngine(deps Deps) *Engine {
	if deps.Classifier == nil {
		deps.Classifier = taxonomy.New(taxonomy.Apparel())
	}
	if deps.Collator == nil {
		deps.Collator = collate.New("en")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Engine{
		classifier: deps.Classifier,
		collator:   deps.Collator,
		pricing:    deps.Pricing,
		now:        deps.Now,
	}
}

func (e *Engine) Classifier() *taxonomy.Classifier {
	return e.classifier
}

// dimension names a facet that can be left out of a match.
type dimension int

const (
	dimNone dimension = iota
	dimType
	dimStock
	dimColor
	dimSize
)

// Apply runs the pipeline scope → type → stock → color/size over products
// and sorts the survivors. products is never modified.
func (e *Engine) Apply(products []product.Product, state FilterState, scope string) Result {
	scoped := make([]*product.Product, 0, len(products))
	for i := range products {
		if e.classifier.InScope(products[i].CategoryTags, scope) {
			scoped = append(scoped, &products[i])
		}
	}

	filtered := make([]product.Product, 0, len(scoped))
	for _, p := range scoped {
		if kept, ok := e.filterProduct(p, state); ok {
			filtered = append(filtered, kept)
		}
	}
	e.sortProducts(filtered, state.Sort)

	counts := e.count(scoped, state)
	return Result{
		Products: filtered,
		Counts:   counts,
		Colors:   e.colorOptions(state, counts.Colors),
		Sizes:    e.sizeOptions(state, counts.Sizes),
		Types:    e.typeOptions(state, counts.Types),
	}
}

// filterProduct applies the type, stock and variation filters to one scoped
// product and returns a copy holding only matching variations.
func (e *Engine) filterProduct(p *product.Product, state FilterState) (product.Product, bool) {
	if !e.matchesType(p, state) || !matchesProductStock(p, state.Stock) {
		return product.Product{}, false
	}
	kept := *p
	if !variationFiltered(state, dimNone) {
		return kept, true
	}
	var variations []product.Variation
	for _, v := range p.Variations {
		if matchesVariation(v, state, dimNone) {
			variations = append(variations, v)
		}
	}
	if len(variations) == 0 {
		return product.Product{}, false
	}
	kept.Variations = variations
	return kept, true
}

func (e *Engine) matchesType(p *product.Product, state FilterState) bool {
	t := state.Type()
	return t == "" || e.classifier.InScope(p.CategoryTags, t)
}

// matchesProductStock is the product-level stock test: in stock needs one
// variation with positive stock, out of stock needs all variations at or
// below zero.
func matchesProductStock(p *product.Product, level StockLevel) bool {
	switch level {
	case StockIn:
		return p.InStock()
	case StockOut:
		for _, v := range p.Variations {
			if v.StockQuantity > 0 {
				return false
			}
		}
	}
	return true
}

func matchesVariationStock(v product.Variation, level StockLevel) bool {
	switch level {
	case StockIn:
		return v.StockQuantity > 0
	case StockOut:
		return v.StockQuantity <= 0
	}
	return true
}

// variationFiltered reports whether any variation-level constraint other
// than skip is active.
func variationFiltered(state FilterState, skip dimension) bool {
	return (skip != dimColor && len(state.Colors) > 0) ||
		(skip != dimSize && len(state.Sizes) > 0) ||
		(skip != dimStock && state.Stock != StockAll)
}

func matchesVariation(v product.Variation, state FilterState, skip dimension) bool {
	if skip != dimColor && len(state.Colors) > 0 && !contains(state.Colors, v.Color) {
		return false
	}
	if skip != dimSize && len(state.Sizes) > 0 && !contains(state.Sizes, v.Size) {
		return false
	}
	if skip != dimStock && !matchesVariationStock(v, state.Stock) {
		return false
	}
	return true
}

// matchesExcept reports whether p passes every active facet except skip.
func (e *Engine) matchesExcept(p *product.Product, state FilterState, skip dimension) bool {
	if skip != dimType && !e.matchesType(p, state) {
		return false
	}
	if skip != dimStock && !matchesProductStock(p, state.Stock) {
		return false
	}
	if !variationFiltered(state, skip) {
		return true
	}
	for _, v := range p.Variations {
		if matchesVariation(v, state, skip) {
			return true
		}
	}
	return false
}

// count computes every facet's option counts over the scoped products, each
// facet holding all the others at their current selection.
func (e *Engine) count(scoped []*product.Product, state FilterState) Counts {
	c := Counts{
		Colors: make(map[string]int),
		Sizes:  make(map[string]int),
		Types:  make(map[string]int),
		Stock:  make(map[StockLevel]int),
	}

	// Option universes come from the scoped set so that narrowing one facet
	// never hides another facet's options; selected values always stay.
	for _, p := range scoped {
		for _, v := range p.Variations {
			touch(c.Colors, v.Color)
			touch(c.Sizes, v.Size)
		}
	}
	for _, v := range state.Colors {
		touch(c.Colors, v)
	}
	for _, v := range state.Sizes {
		touch(c.Sizes, v)
	}
	for _, t := range e.classifier.TypeOptions() {
		touch(c.Types, t)
	}

	for _, p := range scoped {
		if e.matchesType(p, state) && matchesProductStock(p, state.Stock) {
			colors := make(map[string]bool)
			sizes := make(map[string]bool)
			for _, v := range p.Variations {
				if matchesVariation(v, state, dimColor) {
					colors[v.Color] = true
				}
				if matchesVariation(v, state, dimSize) {
					sizes[v.Size] = true
				}
			}
			for k := range colors {
				c.Colors[k]++
			}
			for k := range sizes {
				c.Sizes[k]++
			}
		}

		for _, level := range []StockLevel{StockAll, StockIn, StockOut} {
			alt := state
			alt.Stock = level
			if e.matchesExcept(p, alt, dimNone) {
				c.Stock[level]++
			}
		}

		if e.matchesExcept(p, state, dimType) {
			for _, t := range e.classifier.TypeOptions() {
				if e.classifier.InScope(p.CategoryTags, t) {
					c.Types[t]++
				}
			}
		}
	}
	return c
}

func touch(m map[string]int, key string) {
	if _, ok := m[key]; !ok {
		m[key] = 0
	}
}

func (e *Engine) colorOptions(state FilterState, counts map[string]int) []Option {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	labels = color.SortLabels(labels, e.collator.Less)
	opts := make([]Option, 0, len(labels))
	for _, label := range labels {
		entry := color.Resolve(label)
		opts = append(opts, Option{
			Value:      label,
			Count:      counts[label],
			Selected:   contains(state.Colors, label),
			Swatch:     color.SwatchBackground(entry, label),
			MultiColor: entry.MultiColor(),
		})
	}
	return opts
}

func (e *Engine) sizeOptions(state FilterState, counts map[string]int) []Option {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	labels = SortSizes(labels, e.collator.Less)
	opts := make([]Option, 0, len(labels))
	for _, label := range labels {
		opts = append(opts, Option{Value: label, Count: counts[label], Selected: contains(state.Sizes, label)})
	}
	return opts
}

func (e *Engine) typeOptions(state FilterState, counts map[string]int) []Option {
	types := e.classifier.TypeOptions()
	opts := make([]Option, 0, len(types))
	for _, t := range types {
		opts = append(opts, Option{Value: t, Count: counts[t], Selected: state.Type() == t})
	}
	return opts
}
