// Package taxonomy classifies free-form product category tags into scopes,
// types and subcategories. Matching is substring based on normalized tokens;
// the alias tables carry the exclusions that keep common overlaps apart.
package taxonomy

import (
	"regexp"
	"strings"
)

// SubCategory is one of a preset's fixed subcategory identifiers.
type SubCategory string

// Uncategorised is returned when no alias matches.
const Uncategorised SubCategory = "uncategorised"

// Alias maps tokens to a subcategory: a tag token matches when it contains
// any Include substring and no Exclude substring.
type Alias struct {
	Category SubCategory
	Include  []string
	Exclude  []string
}

// Config parameterizes a classifier for one storefront surface.
type Config struct {
	Name string
	// ReservedScopes match every product.
	ReservedScopes []string
	// ScopeAliases maps a normalized scope token to extra normalized tokens
	// accepted for it.
	ScopeAliases map[string][]string
	// Subcategories are evaluated in priority order; the first match wins.
	Subcategories []Alias
	// TypeOptions are the scope tokens offered by the type facet.
	TypeOptions []string
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	cfg      Config
	reserved map[string]bool
}

var tokenSeparators = regexp.MustCompile(`[-_\s]+`)

// NormalizeToken lowercases s and strips hyphens, underscores and whitespace.
func NormalizeToken(s string) string {
	return tokenSeparators.ReplaceAllString(strings.ToLower(s), "")
}

// normalizeTag strips a trailing "-collection" before normalizing.
func normalizeTag(tag string) string {
	t := strings.TrimSpace(strings.ToLower(tag))
	t = strings.TrimSuffix(t, "-collection")
	return NormalizeToken(t)
}

func New(cfg Config) *Classifier {
	reserved := map[string]bool{"": true}
	for _, s := range cfg.ReservedScopes {
		reserved[NormalizeToken(s)] = true
	}
	return &Classifier{cfg: cfg, reserved: reserved}
}

func (c *Classifier) Name() string {
	return c.cfg.Name
}

// IsReserved reports whether scope selects the whole catalog. The empty
// scope is reserved.
func (c *Classifier) IsReserved(scope string) bool {
	return c.reserved[NormalizeToken(strings.TrimSpace(scope))]
}

// TypeOptions returns the type facet options in display order.
func (c *Classifier) TypeOptions() []string {
	return append([]string(nil), c.cfg.TypeOptions...)
}

// InScope reports whether any tag matches scope. A tag matches a scope
// token T when, normalized, it equals T, equals T+"collection", or contains T.
func (c *Classifier) InScope(tags []string, scope string) bool {
	if c.IsReserved(scope) {
		return true
	}
	tokens := c.scopeTokens(scope)
	for _, tag := range tags {
		nt := normalizeTag(tag)
		if nt == "" {
			continue
		}
		for _, t := range tokens {
			if nt == t || nt == t+"collection" || strings.Contains(nt, t) {
				return true
			}
		}
	}
	return false
}

func (c *Classifier) scopeTokens(scope string) []string {
	t := NormalizeToken(strings.TrimSpace(scope))
	tokens := []string{t}
	for _, alias := range c.cfg.ScopeAliases[t] {
		if a := NormalizeToken(alias); a != "" {
			tokens = append(tokens, a)
		}
	}
	return tokens
}

// Subcategory returns the first subcategory, in priority order, that any tag
// matches, or Uncategorised.
func (c *Classifier) Subcategory(tags []string) SubCategory {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if nt := normalizeTag(tag); nt != "" {
			normalized = append(normalized, nt)
		}
	}
	for _, alias := range c.cfg.Subcategories {
		for _, nt := range normalized {
			if alias.matches(nt) {
				return alias.Category
			}
		}
	}
	return Uncategorised
}

func (a Alias) matches(token string) bool {
	for _, ex := range a.Exclude {
		if strings.Contains(token, ex) {
			return false
		}
	}
	for _, in := range a.Include {
		if strings.Contains(token, in) {
			return true
		}
	}
	return false
}
