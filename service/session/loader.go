package session

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storefront.GO/model/entity/product"
)

// Fetcher is a read-only bulk source of catalog snapshots.
type Fetcher interface {
	FetchSnapshot(ctx context.Context, scope string) ([]product.Product, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, scope string) ([]product.Product, error)

func (f FetcherFunc) FetchSnapshot(ctx context.Context, scope string) ([]product.Product, error) {
	return f(ctx, scope)
}

// Loader deduplicates concurrent fetches: at most one fetch per scope key is
// outstanding, and every caller for that key shares its result.
type Loader struct {
	fetcher Fetcher
	log     *zap.Logger
	group   singleflight.Group
}

func NewLoader(fetcher Fetcher, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, log: log}
}

// Load returns the snapshot for scope. Cancelling ctx releases this caller
// only; the shared fetch keeps running for the other waiters.
func (l *Loader) Load(ctx context.Context, scope string) ([]product.Product, error) {
	ch := l.group.DoChan(scope, func() (any, error) {
		start := time.Now()
		products, err := l.fetcher.FetchSnapshot(context.WithoutCancel(ctx), scope)
		if err != nil {
			l.log.Warn("snapshot fetch failed", zap.String("scope", scope), zap.Error(err))
			return nil, err
		}
		l.log.Debug("snapshot fetched",
			zap.String("scope", scope),
			zap.Int("products", len(products)),
			zap.Duration("took", time.Since(start)))
		return products, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.log.Debug("snapshot fetch shared", zap.String("scope", scope))
		}
		products, _ := res.Val.([]product.Product)
		return products, nil
	}
}

// Forget drops any in-flight entry for scope so the next Load starts a new
// fetch.
func (l *Loader) Forget(scope string) {
	l.group.Forget(scope)
}
