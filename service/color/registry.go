// Package color normalizes the free-form color vocabulary used on product
// variations and resolves labels to solid or multi-color swatch entries.
package color

import (
	"regexp"
	"strings"
)

// Kind distinguishes single-hex colors from multi-segment patterns.
type Kind int

const (
	Solid Kind = iota
	Pattern
)

func (k Kind) String() string {
	if k == Pattern {
		return "pattern"
	}
	return "solid"
}

// Entry is a resolved color. Values holds one hex for Solid and two or more
// for Pattern, in swatch order.
type Entry struct {
	Key    string
	Kind   Kind
	Values []string
}

// MultiColor reports whether the entry renders as more than one color.
func (e Entry) MultiColor() bool {
	return e.Kind == Pattern
}

var (
	separators       = regexp.MustCompile(`[\s_\-/]+`)
	parenthesizedNum = regexp.MustCompile(`\(\d+\)`)
	flagWord         = regexp.MustCompile(`(?i)flag`)
)

// Normalize turns a raw color label into a lookup key: lowercased, with
// whitespace, underscores, hyphens, slashes, parenthesized numerals and the
// word "flag" removed.
func Normalize(name string) string {
	key := strings.ToLower(name)
	key = separators.ReplaceAllString(key, "")
	key = parenthesizedNum.ReplaceAllString(key, "")
	key = flagWord.ReplaceAllString(key, "")
	return strings.TrimSpace(key)
}

// Resolve looks name up in the solid table, then the pattern table. Unknown
// names resolve to a solid entry holding the original label, which callers
// treat as a literal CSS color.
func Resolve(name string) Entry {
	key := Normalize(name)
	if hex, ok := solids[key]; ok {
		return Entry{Key: key, Kind: Solid, Values: []string{hex}}
	}
	if values, ok := patterns[key]; ok {
		return Entry{Key: key, Kind: Pattern, Values: append([]string(nil), values...)}
	}
	return Entry{Key: key, Kind: Solid, Values: []string{name}}
}

// IsMultiColor reports whether name resolves to a pattern entry.
func IsMultiColor(name string) bool {
	return Resolve(name).MultiColor()
}

// Known reports whether name resolves through one of the static tables.
func Known(name string) bool {
	key := Normalize(name)
	if _, ok := solids[key]; ok {
		return true
	}
	_, ok := patterns[key]
	return ok
}
