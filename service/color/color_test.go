package color

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Navy Blue":         "navyblue",
		"heather_grey":      "heathergrey",
		"Black/White":       "blackwhite",
		"Off-White":         "offwhite",
		"Rainbow (6)":       "rainbow",
		"South Africa Flag": "southafrica",
		"FLAG of Ghana":     "ofghana",
		"  Red  ":           "red",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestResolve(t *testing.T) {
	red := Resolve("Red")
	assert.Equal(t, Solid, red.Kind)
	assert.Equal(t, []string{"#D0021B"}, red.Values)

	sa := Resolve("South-Africa flag")
	assert.Equal(t, Pattern, sa.Kind)
	assert.Len(t, sa.Values, 6)

	unknown := Resolve("Burnt Sienna")
	assert.Equal(t, Solid, unknown.Kind)
	assert.Equal(t, []string{"Burnt Sienna"}, unknown.Values, "miss keeps the original label as a CSS literal")
	assert.False(t, Known("Burnt Sienna"))
}

func TestResolve_DoesNotLeakTable(t *testing.T) {
	e := Resolve("rainbow")
	e.Values[0] = "#000000"
	assert.Equal(t, "#E40303", Resolve("rainbow").Values[0])
}

func TestSwatchBackground(t *testing.T) {
	assert.Equal(t, "#000000", SwatchBackground(Resolve("Black"), "Black"))

	two := SwatchBackground(Resolve("Black & White"), "Black & White")
	// "&" is not a separator, so the label misses and resolves as a literal.
	assert.Equal(t, "Black & White", two)

	half := SwatchBackground(Resolve("Black/White"), "Black/White")
	assert.Equal(t, "linear-gradient(45deg, #000000 50%, #FFFFFF 50%)", half)

	thirds := SwatchBackground(Resolve("Ghana"), "Ghana")
	assert.Equal(t, "linear-gradient(45deg, #CE1126 33.33%, #FCD116 33.33%, #FCD116 66.66%, #006B3F 66.66%)", thirds)

	stripes := SwatchBackground(Resolve("Jamaica"), "Jamaica")
	assert.Equal(t, "linear-gradient(45deg, #009B3A 0%, #009B3A 25%, #FED100 25%, #FED100 50%, "+
		"#000000 50%, #000000 75%, #FED100 75%, #FED100 100%)", stripes)
}

func TestSwatchBackground_SouthAfrica(t *testing.T) {
	e := Resolve("South Africa")
	got := SwatchBackground(e, "South Africa Flag")
	require.True(t, strings.HasPrefix(got, "linear-gradient(to top, "))

	v := e.Values
	want := "linear-gradient(to top, " +
		v[2] + " 0%, " + v[2] + " 16.66%, " +
		v[0] + " 16.66%, " + v[0] + " 33.32%, " +
		v[1] + " 33.32%, " + v[1] + " 49.98%, " +
		v[4] + " 49.98%, " + v[4] + " 66.64%, " +
		v[3] + " 66.64%, " + v[3] + " 83.3%, " +
		v[5] + " 83.3%, " + v[5] + " 100%)"
	assert.Equal(t, want, got)

	// Six segments without the label hint fall back to equal stripes.
	rainbow := SwatchBackground(Resolve("Rainbow"), "Rainbow")
	assert.True(t, strings.HasPrefix(rainbow, "linear-gradient(45deg, #E40303 0%"))
	assert.Equal(t, 12, strings.Count(rainbow, "#"))
}

func TestSortLabels_MultiColorLast(t *testing.T) {
	got := SortLabels([]string{"Red", "Rainbow(6-flag-pattern)", "Blue"}, nil)
	assert.Equal(t, []string{"Blue", "Red", "Rainbow(6-flag-pattern)"}, got)

	got = SortLabels([]string{"Red", "Rainbow (6)", "Blue"}, nil)
	assert.Equal(t, []string{"Blue", "Red", "Rainbow (6)"}, got)

	caseless := func(a, b string) bool { return strings.ToLower(a) < strings.ToLower(b) }
	got = SortLabels([]string{"Tie Dye", "white", "Camo", "Black"}, caseless)
	assert.Equal(t, []string{"Black", "white", "Camo", "Tie Dye"}, got)
}

func TestResolve_SheetRainbowLabel(t *testing.T) {
	e := Resolve("Rainbow(6-flag-pattern)")
	assert.Equal(t, "rainbow(6pattern)", e.Key)
	assert.Equal(t, Pattern, e.Kind)
	assert.Equal(t, Resolve("Rainbow").Values, e.Values)
	assert.True(t, IsMultiColor("Rainbow(6-flag-pattern)"))
}
