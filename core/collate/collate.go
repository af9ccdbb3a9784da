// Package collate provides locale-aware string ordering for catalog sorts.
package collate

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator wraps an x/text collator. Collators keep internal buffers, so
// calls are serialized.
type Comparator struct {
	mu  sync.Mutex
	c   *collate.Collator
	tag language.Tag
}

// New returns a comparator for the BCP-47 locale. Unparseable locales fall
// back to English.
func New(locale string) *Comparator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Comparator{c: collate.New(tag), tag: tag}
}

// Locale returns the resolved language tag.
func (c *Comparator) Locale() string {
	return c.tag.String()
}

// Compare returns -1, 0 or 1.
func (c *Comparator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

func (c *Comparator) Less(a, b string) bool {
	return c.Compare(a, b) < 0
}
