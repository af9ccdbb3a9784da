package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is a thread-safe key-value store with optional per-entry TTL and tag
// based invalidation.
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to a *sync.Map set of keys
	tagIndex sync.Map
	now      func() time.Time
}

// NewCache creates a new Cache instance.
func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// NewCacheWithClock creates a Cache that reads time from now; used by tests.
func NewCacheWithClock(now func() time.Time) *Cache {
	return &Cache{now: now}
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     any
	ExpiresAt int64 // Unix timestamp in nanoseconds; 0 means no expiration
}

// Set stores a value for key. A ttl of zero or less never expires.
func (c *Cache) Set(key string, value any, ttl time.Duration, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.now().Add(ttl).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	if len(tags) > 0 {
		c.TagKey(key, tags)
	}
}

// Get returns the value for key when present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	item := v.(cacheItem)
	if item.ExpiresAt > 0 && c.now().UnixNano() > item.ExpiresAt {
		c.m.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// GetOrDefault returns the cached value or def on a miss.
func (c *Cache) GetOrDefault(key string, def any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	return def
}

// Delete removes a key from the cache and from every tag set.
func (c *Cache) Delete(key string) {
	c.m.Delete(key)
	c.tagIndex.Range(func(_, km any) bool {
		km.(*sync.Map).Delete(key)
		return true
	})
}

// DeleteMany removes multiple keys from the cache.
func (c *Cache) DeleteMany(keys ...string) {
	for _, key := range keys {
		c.Delete(key)
	}
}

// CompositeKey joins parts with "|".
func CompositeKey(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprintf("%v", p)
	}
	return strings.Join(s, "|")
}

// SetN stores a value under the composite key built from keys.
func (c *Cache) SetN(keys []any, value any, ttl time.Duration, tags []string) {
	c.Set(CompositeKey(keys...), value, ttl, tags)
}

func (c *Cache) GetN(keys ...any) (any, bool) {
	return c.Get(CompositeKey(keys...))
}

func (c *Cache) DeleteN(keys ...any) {
	c.Delete(CompositeKey(keys...))
}

// TagKey assigns one or more tags to a cache key.
func (c *Cache) TagKey(key string, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
}

// GetKeysByTag returns all keys assigned to a tag.
func (c *Cache) GetKeysByTag(tag string) []string {
	var keys []string
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ any) bool {
			keys = append(keys, key.(string))
			return true
		})
	}
	return keys
}

// DeleteByTag deletes all cache entries assigned to a tag and returns how
// many keys were dropped.
func (c *Cache) DeleteByTag(tag string) int {
	val, ok := c.tagIndex.LoadAndDelete(tag)
	if !ok {
		return 0
	}
	n := 0
	val.(*sync.Map).Range(func(key, _ any) bool {
		c.Delete(key.(string))
		n++
		return true
	})
	return n
}
