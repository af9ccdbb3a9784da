package facet

import (
	"fmt"
	"strings"
)

// StockLevel is the stock facet selection.
type StockLevel int

const (
	StockAll StockLevel = iota
	StockIn
	StockOut
)

var stockNames = map[StockLevel]string{StockAll: "all", StockIn: "in-stock", StockOut: "out-of-stock"}

func (s StockLevel) String() string {
	if n, ok := stockNames[s]; ok {
		return n
	}
	return fmt.Sprintf("StockLevel(%d)", int(s))
}

// ParseStockLevel accepts "all", "in-stock"/"instock"/"in" and
// "out-of-stock"/"outofstock"/"out".
func ParseStockLevel(s string) (StockLevel, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-")) {
	case "", "all":
		return StockAll, nil
	case "in-stock", "instock", "in":
		return StockIn, nil
	case "out-of-stock", "outofstock", "out":
		return StockOut, nil
	}
	return StockAll, fmt.Errorf("facet: unknown stock level %q", s)
}

// SortOrder selects the result ordering.
type SortOrder int

const (
	SortRelevance SortOrder = iota
	SortPriceAsc
	SortPriceDesc
	SortNameAsc
	SortNameDesc
	SortNewest
)

var sortNames = map[SortOrder]string{
	SortRelevance: "relevance",
	SortPriceAsc:  "price-asc",
	SortPriceDesc: "price-desc",
	SortNameAsc:   "name-asc",
	SortNameDesc:  "name-desc",
	SortNewest:    "newest",
}

func (s SortOrder) String() string {
	if n, ok := sortNames[s]; ok {
		return n
	}
	return fmt.Sprintf("SortOrder(%d)", int(s))
}

// ParseSortOrder accepts the String forms, case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if key == "" {
		return SortRelevance, nil
	}
	for order, name := range sortNames {
		if name == key {
			return order, nil
		}
	}
	return SortRelevance, fmt.Errorf("facet: unknown sort order %q", s)
}

// FilterState is the facet selection of one browsing session. Colors and
// Sizes hold raw labels and compare exactly against variation values. Types
// is single-valued in practice: only the first element is applied.
type FilterState struct {
	Stock  StockLevel
	Colors []string
	Sizes  []string
	Types  []string
	Sort   SortOrder
}

// DefaultFilterState is the state a new session starts with.
func DefaultFilterState() FilterState {
	return FilterState{Stock: StockAll, Sort: SortRelevance}
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	f.Colors = append([]string(nil), f.Colors...)
	f.Sizes = append([]string(nil), f.Sizes...)
	f.Types = append([]string(nil), f.Types...)
	return f
}

// Type returns the active type selector or "".
func (f FilterState) Type() string {
	if len(f.Types) == 0 {
		return ""
	}
	return f.Types[0]
}

// Toggle adds value to set when absent and removes it otherwise, preserving
// the order of the remaining values.
func Toggle(set []string, value string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, v := range set {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}
	return out
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
