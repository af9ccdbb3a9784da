package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront.GO/config"
	"storefront.GO/core/cache"
	"storefront.GO/cron"
	"storefront.GO/model/entity/product"
	"storefront.GO/service/catalog"
	"storefront.GO/service/session"
	"storefront.GO/service/snapshot"
)

type recordingFetcher struct {
	mu     sync.Mutex
	scopes []string
	fail   string
}

func (f *recordingFetcher) FetchSnapshot(_ context.Context, scope string) ([]product.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, scope)
	if scope == f.fail {
		return nil, errors.New("backend down")
	}
	return make([]product.Product, len(scope)), nil
}

func (f *recordingFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scopes)
}

func TestWarmSnapshots_RefetchesAfterInvalidate(t *testing.T) {
	backend := &recordingFetcher{}
	cached := snapshot.NewCachedSource(backend, cache.NewCache(), nil, time.Hour, nil)
	ctx := context.Background()

	_, err := cached.FetchSnapshot(ctx, "hoodies")
	require.NoError(t, err)
	require.Equal(t, 1, backend.calls())

	counts, err := WarmSnapshots(ctx, cached, cached, []string{"hoodies", "caps"}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"hoodies": 7, "caps": 4}, counts)
	assert.Equal(t, 3, backend.calls())

	_, err = cached.FetchSnapshot(ctx, "caps")
	require.NoError(t, err)
	assert.Equal(t, 3, backend.calls(), "warmed scope served from cache")
}

func TestWarmSnapshots_Error(t *testing.T) {
	backend := &recordingFetcher{fail: "bags"}
	cached := snapshot.NewCachedSource(backend, nil, nil, time.Hour, nil)

	_, err := WarmSnapshots(context.Background(), cached, cached, []string{"caps", "bags"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `warm scope "bags"`)
}

func init() {
	catalog.RegisterSource("jobs-test", func(context.Context, *config.Config, *zap.Logger) (session.Fetcher, error) {
		return &recordingFetcher{}, nil
	})
}

func TestRegisterBuiltins(t *testing.T) {
	cfg := &config.Config{Source: "jobs-test", Taxonomy: "apparel", Locale: "en",
		SnapshotTTL: time.Minute, WarmScopes: []string{"caps"}, WarmSchedule: "@every 5m"}
	rt, err := catalog.NewRuntime(context.Background(), cfg, nil, catalog.Options{})
	require.NoError(t, err)

	RegisterBuiltins(rt)
	defer cron.Unregister(SnapshotWarmJob)

	j, ok := cron.Jobs()[SnapshotWarmJob]
	require.True(t, ok)
	assert.Equal(t, "@every 5m", j.Schedule)
	require.NoError(t, j.Run(context.Background()))
	require.NoError(t, j.Run(context.Background(), "hoodies", "bags"))
}
