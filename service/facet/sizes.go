package facet

import (
	"sort"
	"strconv"
	"strings"
)

// sizeRank orders letter sizes from smallest to largest.
var sizeRank = map[string]int{
	"xxs": 0, "2xs": 0,
	"xs": 1,
	"s":  2, "small": 2,
	"m": 3, "medium": 3,
	"l": 4, "large": 4,
	"xl":  5,
	"xxl": 6, "2xl": 6,
	"xxxl": 7, "3xl": 7,
	"4xl":     8,
	"5xl":     9,
	"onesize": 10, "os": 10,
}

func sizeKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// SortSizes orders size labels: known letter sizes by rank, then numeric
// sizes ascending, then everything else by less.
func SortSizes(sizes []string, less func(a, b string) bool) []string {
	if less == nil {
		less = func(a, b string) bool { return a < b }
	}
	out := append([]string(nil), sizes...)
	sort.SliceStable(out, func(i, j int) bool {
		ci, ri := classifySize(out[i])
		cj, rj := classifySize(out[j])
		if ci != cj {
			return ci < cj
		}
		if ci < 2 && ri != rj {
			return ri < rj
		}
		return less(out[i], out[j])
	})
	return out
}

// classifySize returns the group (0 letter, 1 numeric, 2 other) and rank.
func classifySize(s string) (int, float64) {
	if r, ok := sizeRank[sizeKey(s)]; ok {
		return 0, float64(r)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return 1, f
	}
	return 2, 0
}
