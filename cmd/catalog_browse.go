package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"storefront.GO/core/pagination"
	"storefront.GO/model/entity/product"
	"storefront.GO/service/catalog"
	"storefront.GO/service/facet"
	"storefront.GO/service/pricing"
	"storefront.GO/service/session"
)

var (
	browseScope  string
	browseType   string
	browseColors []string
	browseSizes  []string
	browseStock  string
	browseSort   string
	browsePage   int
	browseLimit  int
	browseAt     string
	browseJSON   bool
)

var browseCmd = &cobra.Command{
	Use:   "catalog:browse",
	Short: "Browse a catalog scope with facet filters, counts and effective prices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stock, err := facet.ParseStockLevel(browseStock)
		if err != nil {
			return err
		}
		order, err := facet.ParseSortOrder(browseSort)
		if err != nil {
			return err
		}
		var opts catalog.Options
		if browseAt != "" {
			at, err := parseAt(browseAt)
			if err != nil {
				return err
			}
			opts.Now = func() time.Time { return at }
		}

		rt, err := loadRuntime(ctx, opts)
		if err != nil {
			return err
		}
		defer rt.Logger.Sync() //nolint:errcheck

		s := rt.NewSession()
		if err := s.Load(ctx, browseScope); err != nil {
			return err
		}
		if browseType != "" {
			s.SetType(browseType)
		}
		for _, c := range browseColors {
			s.ToggleColor(c)
		}
		for _, sz := range browseSizes {
			s.ToggleSize(sz)
		}
		s.SetStockLevel(stock)
		s.SetSort(order)

		limit := browseLimit
		if limit <= 0 {
			limit = rt.Config.DefaultPageSize
		}
		v := s.View()
		items, page := v.Page(browsePage, limit)
		out := newBrowseOutput(rt.Engine, v, items, page)
		if browseJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		printBrowse(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	f := browseCmd.Flags()
	f.StringVar(&browseScope, "scope", "", "Category scope, e.g. t-shirts (empty selects all)")
	f.StringVar(&browseType, "type", "", "Type facet within the scope")
	f.StringSliceVar(&browseColors, "color", nil, "Color label to select (repeatable)")
	f.StringSliceVar(&browseSizes, "size", nil, "Size label to select (repeatable)")
	f.StringVar(&browseStock, "stock", "all", "Stock filter: all, in-stock or out-of-stock")
	f.StringVar(&browseSort, "sort", "relevance", "Sort: relevance, price-asc, price-desc, name-asc, name-desc, newest")
	f.IntVar(&browsePage, "page", 1, "Page number")
	f.IntVar(&browseLimit, "limit", 0, "Page size (default CATALOG_PAGE_SIZE)")
	f.StringVar(&browseAt, "at", "", "Price at this time (RFC3339 or YYYY-MM-DD)")
	f.BoolVar(&browseJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(browseCmd)
}

func parseAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: want RFC3339 or YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

type browseBand struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type browseProduct struct {
	ID         uint         `json:"id"`
	Name       string       `json:"name"`
	Price      string       `json:"price"`
	BasePrice  string       `json:"base_price"`
	Discounted bool         `json:"discounted"`
	InStock    bool         `json:"in_stock"`
	Rating     float64      `json:"rating"`
	Reviews    int          `json:"reviews"`
	Colors     []string     `json:"colors"`
	Sizes      []string     `json:"sizes"`
	Bands      []browseBand `json:"bands,omitempty"`
}

type browseOutput struct {
	Scope    string          `json:"scope"`
	State    string          `json:"state"`
	Page     pagination.Page `json:"page"`
	Products []browseProduct `json:"products"`
	Colors   []facet.Option  `json:"colors"`
	Sizes    []facet.Option  `json:"sizes"`
	Types    []facet.Option  `json:"types"`
	Stock    map[string]int  `json:"stock"`
}

func newBrowseOutput(engine *facet.Engine, v session.View, items []product.Product, page pagination.Page) browseOutput {
	out := browseOutput{
		Scope:    v.Scope,
		State:    v.State.String(),
		Page:     page,
		Products: make([]browseProduct, 0, len(items)),
		Colors:   v.Result.Colors,
		Sizes:    v.Result.Sizes,
		Types:    v.Result.Types,
		Stock:    make(map[string]int, len(v.Result.Counts.Stock)),
	}
	for level, n := range v.Result.Counts.Stock {
		out.Stock[level.String()] = n
	}
	for i := range items {
		p := &items[i]
		eff := engine.EffectivePrice(p)
		rating, reviews := p.AverageRating()
		bp := browseProduct{
			ID:         p.ID,
			Name:       p.Name,
			Price:      eff.StringFixed(2),
			BasePrice:  p.BasePrice.StringFixed(2),
			Discounted: engine.Discounted(p),
			InStock:    p.InStock(),
			Rating:     rating,
			Reviews:    reviews,
			Colors:     distinct(p.Variations, func(v product.Variation) string { return v.Color }),
			Sizes:      distinct(p.Variations, func(v product.Variation) string { return v.Size }),
		}
		for _, b := range pricing.DisplayBands(p.TierPrices) {
			bp.Bands = append(bp.Bands, browseBand{Label: b.Label, Value: b.Value.StringFixed(2)})
		}
		out.Products = append(out.Products, bp)
	}
	return out
}

func distinct(vars []product.Variation, field func(product.Variation) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range vars {
		if s := field(v); s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func printBrowse(w io.Writer, out browseOutput) {
	scope := out.Scope
	if scope == "" {
		scope = "(all)"
	}
	fmt.Fprintf(w, "Scope: %s  State: %s  Products: %d  Page %d/%d\n\n",
		scope, out.State, out.Page.TotalItems, out.Page.Number, out.Page.TotalPages)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tWAS\tSTOCK\tRATING\tCOLORS\tSIZES")
	for _, p := range out.Products {
		was := ""
		if p.Discounted {
			was = p.BasePrice
		}
		stock := "out"
		if p.InStock {
			stock = "in"
		}
		rating := "-"
		if p.Reviews > 0 {
			rating = fmt.Sprintf("%.1f (%d)", p.Rating, p.Reviews)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price, was, stock, rating,
			strings.Join(p.Colors, ","), strings.Join(p.Sizes, ","))
		if len(p.Bands) > 0 {
			bands := make([]string, len(p.Bands))
			for i, b := range p.Bands {
				bands[i] = b.Label + " " + b.Value
			}
			fmt.Fprintf(tw, "\t  tiers: %s\t\t\t\t\t\t\n", strings.Join(bands, " | "))
		}
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Types:  %s\n", formatOptions(out.Types))
	fmt.Fprintf(w, "Colors: %s\n", formatOptions(out.Colors))
	fmt.Fprintf(w, "Sizes:  %s\n", formatOptions(out.Sizes))
	fmt.Fprintf(w, "Stock:  all %d | in-stock %d | out-of-stock %d\n",
		out.Stock[facet.StockAll.String()], out.Stock[facet.StockIn.String()], out.Stock[facet.StockOut.String()])
}

func formatOptions(opts []facet.Option) string {
	if len(opts) == 0 {
		return "-"
	}
	parts := make([]string, len(opts))
	for i, o := range opts {
		mark := ""
		if o.Selected {
			mark = "*"
		}
		parts[i] = fmt.Sprintf("%s%s (%d)", mark, o.Value, o.Count)
	}
	return strings.Join(parts, ", ")
}
