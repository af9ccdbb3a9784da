package color

// Static color tables, keyed by Normalize output. Read-only after init.
var solids = map[string]string{
	"black":       "#000000",
	"white":       "#FFFFFF",
	"offwhite":    "#F8F4EC",
	"cream":       "#FFFDD0",
	"ivory":       "#FFFFF0",
	"beige":       "#F5F5DC",
	"sand":        "#C2B280",
	"khaki":       "#C3B091",
	"tan":         "#D2B48C",
	"brown":       "#6F4E37",
	"chocolate":   "#7B3F00",
	"grey":        "#808080",
	"gray":        "#808080",
	"lightgrey":   "#D3D3D3",
	"heathergrey": "#B6B6B4",
	"charcoal":    "#36454F",
	"silver":      "#C0C0C0",
	"red":         "#D0021B",
	"maroon":      "#800000",
	"burgundy":    "#800020",
	"wine":        "#722F37",
	"pink":        "#FFC0CB",
	"hotpink":     "#FF69B4",
	"coral":       "#FF7F50",
	"orange":      "#FF8C00",
	"rust":        "#B7410E",
	"yellow":      "#FFD700",
	"mustard":     "#E1AD01",
	"gold":        "#D4AF37",
	"green":       "#008000",
	"olive":       "#556B2F",
	"armygreen":   "#4B5320",
	"forestgreen": "#228B22",
	"mint":        "#98FF98",
	"sage":        "#9CAF88",
	"teal":        "#008080",
	"turquoise":   "#40E0D0",
	"blue":        "#0057B8",
	"skyblue":     "#87CEEB",
	"lightblue":   "#ADD8E6",
	"royalblue":   "#4169E1",
	"navy":        "#000080",
	"navyblue":    "#000080",
	"denim":       "#1560BD",
	"purple":      "#6A0DAD",
	"lilac":       "#C8A2C8",
	"lavender":    "#E6E6FA",
}

var patterns = map[string][]string{
	// Bands are listed green, gold, red, blue, black, white; the swatch
	// renderer reorders them for the horizontal flag layout.
	"southafrica": {"#007A4D", "#FFB612", "#DE3831", "#002395", "#000000", "#FFFFFF"},
	"rainbow":     {"#E40303", "#FF8C00", "#FFED00", "#008026", "#004DFF", "#750787"},
	"pride":       {"#E40303", "#FF8C00", "#FFED00", "#008026", "#004DFF", "#750787"},
	// "Rainbow(6-flag-pattern)" as exported by the merchandising sheet.
	"rainbow(6pattern)": {"#E40303", "#FF8C00", "#FFED00", "#008026", "#004DFF", "#750787"},
	"blackwhite":        {"#000000", "#FFFFFF"},
	"blackandwhite":     {"#000000", "#FFFFFF"},
	"navywhite":         {"#000080", "#FFFFFF"},
	"redblack":          {"#D0021B", "#000000"},
	"redwhiteblue":      {"#D0021B", "#FFFFFF", "#0057B8"},
	"nigeria":           {"#008751", "#FFFFFF", "#008751"},
	"ghana":             {"#CE1126", "#FCD116", "#006B3F"},
	"germany":           {"#000000", "#DD0000", "#FFCE00"},
	"jamaica":           {"#009B3A", "#FED100", "#000000", "#FED100"},
	"kenya":             {"#000000", "#FFFFFF", "#BB0000", "#FFFFFF", "#006600"},
	"camo":              {"#4B5320", "#78866B", "#3B3C36", "#C3B091"},
	"camouflage":        {"#4B5320", "#78866B", "#3B3C36", "#C3B091"},
	"tiedye":            {"#FF1493", "#FFD700", "#00BFFF", "#7CFC00", "#FF4500"},
}
