package color

import (
	"fmt"
	"strconv"
	"strings"
)

// southAfricaStops are the band boundaries of the horizontal flag swatch.
var southAfricaStops = []string{"0%", "16.66%", "33.32%", "49.98%", "66.64%", "83.3%", "100%"}

// southAfricaOrder maps swatch bands (bottom to top) to entry value indexes.
var southAfricaOrder = []int{2, 0, 1, 4, 3, 5}

// SwatchBackground returns a CSS background value for entry. label is the
// original option label; it selects the flag layout for six-band patterns.
func SwatchBackground(entry Entry, label string) string {
	if entry.Kind == Solid || len(entry.Values) == 0 {
		if len(entry.Values) == 0 {
			return label
		}
		return entry.Values[0]
	}

	v := entry.Values
	switch {
	case len(v) == 6 && strings.Contains(Normalize(label), "southafrica"):
		parts := make([]string, 0, 2*len(southAfricaOrder))
		for band, idx := range southAfricaOrder {
			parts = append(parts,
				fmt.Sprintf("%s %s", v[idx], southAfricaStops[band]),
				fmt.Sprintf("%s %s", v[idx], southAfricaStops[band+1]))
		}
		return "linear-gradient(to top, " + strings.Join(parts, ", ") + ")"
	case len(v) == 2:
		return fmt.Sprintf("linear-gradient(45deg, %s 50%%, %s 50%%)", v[0], v[1])
	case len(v) == 3:
		return fmt.Sprintf("linear-gradient(45deg, %s 33.33%%, %s 33.33%%, %s 66.66%%, %s 66.66%%)",
			v[0], v[1], v[1], v[2])
	default:
		return stripes(v)
	}
}

// stripes lays out N equal-width 45deg stripes in value order.
func stripes(values []string) string {
	step := 100.0 / float64(len(values))
	parts := make([]string, 0, 2*len(values))
	for i, hex := range values {
		parts = append(parts,
			fmt.Sprintf("%s %s%%", hex, formatPercent(step*float64(i))),
			fmt.Sprintf("%s %s%%", hex, formatPercent(step*float64(i+1))))
	}
	return "linear-gradient(45deg, " + strings.Join(parts, ", ") + ")"
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
