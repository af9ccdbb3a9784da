package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront.GO/core/cache"
	"storefront.GO/model/entity/product"
	"storefront.GO/service/session"
)

const (
	// CacheTag tags every local snapshot entry.
	CacheTag  = "snapshot"
	keyPrefix = "storefront:snapshot:"
)

// CachedSource serves snapshots from a local cache, then Redis, then the
// wrapped fetcher. Redis failures are logged and treated as misses.
type CachedSource struct {
	next  session.Fetcher
	local *cache.Cache
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedSource wraps next. rdb may be nil to disable the shared level.
func NewCachedSource(next session.Fetcher, local *cache.Cache, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedSource {
	if local == nil {
		local = cache.NewCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedSource{next: next, local: local, rdb: rdb, ttl: ttl, log: log}
}

// Key returns the cache key of a scope.
func Key(scope string) string {
	return keyPrefix + scope
}

func (s *CachedSource) FetchSnapshot(ctx context.Context, scope string) ([]product.Product, error) {
	key := Key(scope)
	if v, ok := s.local.Get(key); ok {
		if products, ok := v.([]product.Product); ok {
			return products, nil
		}
	}

	if products, ok := s.fromRedis(ctx, key); ok {
		s.local.Set(key, products, s.ttl, []string{CacheTag})
		return products, nil
	}

	products, err := s.next.FetchSnapshot(ctx, scope)
	if err != nil {
		return nil, err
	}
	s.local.Set(key, products, s.ttl, []string{CacheTag})
	s.toRedis(ctx, key, products)
	return products, nil
}

func (s *CachedSource) fromRedis(ctx context.Context, key string) ([]product.Product, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("redis snapshot read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var products []product.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		s.log.Warn("redis snapshot corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return products, true
}

func (s *CachedSource) toRedis(ctx context.Context, key string, products []product.Product) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		s.log.Warn("snapshot encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warn("redis snapshot write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateScope drops one scope from both levels.
func (s *CachedSource) InvalidateScope(ctx context.Context, scope string) error {
	key := Key(scope)
	s.local.Delete(key)
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("snapshot: redis del %s: %w", key, err)
	}
	return nil
}

// Invalidate drops every cached snapshot. The local level is always cleared;
// a Redis failure is returned after that.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	n := s.local.DeleteByTag(CacheTag)
	s.log.Debug("local snapshots invalidated", zap.Int("keys", n))
	if s.rdb == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("snapshot: redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("snapshot: redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
