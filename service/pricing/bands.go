package pricing

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"storefront.GO/model/entity/price"
)

// catchAllFrom is the first quantity of the open-ended band.
const catchAllFrom = 601

// Band is one quantity tier shown on a product page.
type Band struct {
	Label   string
	QtyFrom int
	QtyTo   int // 0 for the open-ended band
	Value   decimal.Decimal
}

var fixedBands = []struct{ from, to int }{
	{1, 24},
	{25, 100},
	{101, 600},
}

// DisplayBands groups tiers into the fixed bands 1-24, 25-100 and 101-600
// (first tier with exactly those bounds) plus a catch-all 601+ band (first
// tier starting at 601 or more). Missing bands are omitted. Result is sorted
// by QtyFrom.
func DisplayBands(tiers []price.TierPrice) []Band {
	var bands []Band
	for _, fb := range fixedBands {
		for _, t := range tiers {
			if t.QtyFrom == fb.from && t.QtyTo == fb.to {
				bands = append(bands, Band{
					Label:   strconv.Itoa(fb.from) + "-" + strconv.Itoa(fb.to),
					QtyFrom: t.QtyFrom,
					QtyTo:   t.QtyTo,
					Value:   t.Value,
				})
				break
			}
		}
	}
	for _, t := range tiers {
		if t.QtyFrom >= catchAllFrom {
			bands = append(bands, Band{
				Label:   strconv.Itoa(catchAllFrom) + "+",
				QtyFrom: t.QtyFrom,
				Value:   t.Value,
			})
			break
		}
	}
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].QtyFrom < bands[j].QtyFrom })
	return bands
}
