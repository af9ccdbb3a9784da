package taxonomy

import "fmt"

// Reserved scope tokens that select every product.
const (
	ScopeAllCollections   = "all-collections"
	ScopeAllInCollections = "all-in-collections"
	ScopeAllInApparel     = "all-in-apparel"
)

// Apparel subcategories.
const (
	Men         SubCategory = "men"
	Women       SubCategory = "women"
	Kids        SubCategory = "kids"
	Unisex      SubCategory = "unisex"
	Accessories SubCategory = "accessories"
)

// Collections subcategories.
const (
	ApparelGoods SubCategory = "apparel"
	Headwear     SubCategory = "headwear"
	Homeware     SubCategory = "homeware"
)

var reservedScopes = []string{ScopeAllCollections, ScopeAllInCollections, ScopeAllInApparel}

// Apparel is the preset for the apparel browsing surface. "men" only matches
// tokens that do not also mention women, ladies or kids, because "women"
// contains "men".
func Apparel() Config {
	return Config{
		Name:           "apparel",
		ReservedScopes: reservedScopes,
		ScopeAliases: map[string][]string{
			"tshirts":  {"tshirt", "tee"},
			"hoodies":  {"hoodie", "sweatshirt"},
			"jackets":  {"jacket", "outerwear"},
			"caps":     {"cap", "hat", "beanie"},
			"bags":     {"bag", "tote"},
			"trousers": {"pants", "joggers"},
		},
		Subcategories: []Alias{
			{Category: Men, Include: []string{"men"}, Exclude: []string{"women", "ladies", "kids"}},
			{Category: Women, Include: []string{"women", "ladies"}},
			{Category: Kids, Include: []string{"kid", "youth", "junior"}},
			{Category: Unisex, Include: []string{"unisex"}},
			{Category: Accessories, Include: []string{"accessor", "bag", "cap", "hat", "beanie"}},
		},
		TypeOptions: []string{"t-shirts", "hoodies", "jackets", "trousers", "caps", "bags"},
	}
}

// Collections is the preset for the all-collections browsing surface.
func Collections() Config {
	return Config{
		Name:           "collections",
		ReservedScopes: reservedScopes,
		ScopeAliases: map[string][]string{
			"apparel":     {"tshirt", "tee", "hoodie", "jacket", "shirt"},
			"headwear":    {"cap", "hat", "beanie"},
			"homeware":    {"mug", "poster", "cushion"},
			"accessories": {"accessory", "bag", "tote", "keyring"},
		},
		Subcategories: []Alias{
			{Category: ApparelGoods, Include: []string{"apparel", "shirt", "tee", "hoodie", "jacket"}},
			{Category: Headwear, Include: []string{"headwear", "cap", "hat", "beanie"}},
			{Category: Homeware, Include: []string{"homeware", "mug", "poster", "cushion"}},
			{Category: Accessories, Include: []string{"accessor", "bag", "tote", "keyring"}},
		},
		TypeOptions: []string{"apparel", "headwear", "homeware", "accessories"},
	}
}

// Preset returns the named preset.
func Preset(name string) (Config, error) {
	switch name {
	case "apparel", "":
		return Apparel(), nil
	case "collections", "all-collections":
		return Collections(), nil
	}
	return Config{}, fmt.Errorf("taxonomy: unknown preset %q", name)
}
