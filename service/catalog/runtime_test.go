package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront.GO/config"
	"storefront.GO/model/entity/product"
	"storefront.GO/service/facet"
	"storefront.GO/service/session"
)

var memoryCalls int

// The first "gated" fetch blocks until gatedRelease is closed.
var (
	gatedCalls   atomic.Int32
	gatedStarted = make(chan struct{}, 4)
	gatedRelease = make(chan struct{})
)

func init() {
	RegisterSource("memory", func(context.Context, *config.Config, *zap.Logger) (session.Fetcher, error) {
		return session.FetcherFunc(func(context.Context, string) ([]product.Product, error) {
			memoryCalls++
			return []product.Product{
				{ID: 1, Name: "Mug", CategoryTags: []string{"Mugs"}, BasePrice: decimal.NewFromInt(9),
					Variations: []product.Variation{{ID: 1, Color: "White", Size: "One Size", StockQuantity: 3}}},
				{ID: 2, Name: "Cap", CategoryTags: []string{"Caps"}, BasePrice: decimal.NewFromInt(15),
					Variations: []product.Variation{{ID: 2, Color: "Black", Size: "One Size", StockQuantity: 0}}},
			}, nil
		}), nil
	})
	RegisterSource("gated", func(context.Context, *config.Config, *zap.Logger) (session.Fetcher, error) {
		return session.FetcherFunc(func(context.Context, string) ([]product.Product, error) {
			n := gatedCalls.Add(1)
			gatedStarted <- struct{}{}
			if n == 1 {
				<-gatedRelease
			}
			return []product.Product{
				{ID: uint(n), Name: "Mug", CategoryTags: []string{"Mugs"}, BasePrice: decimal.NewFromInt(9),
					Variations: []product.Variation{{ID: uint(n), Color: "White", Size: "One Size", StockQuantity: 3}}},
			}, nil
		}), nil
	})
	RegisterSource("broken", func(context.Context, *config.Config, *zap.Logger) (session.Fetcher, error) {
		return nil, errors.New("no backend")
	})
}

func testConfig(source string) *config.Config {
	return &config.Config{Source: source, Taxonomy: "collections", Locale: "en", SnapshotTTL: time.Minute}
}

func TestNewRuntime_SessionsShareCachedSnapshots(t *testing.T) {
	memoryCalls = 0
	rt, err := NewRuntime(context.Background(), testConfig("memory"), nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "collections", rt.Classifier.Name())

	first := rt.NewSession()
	require.NoError(t, first.Load(context.Background(), "homeware"))
	first.SetStockLevel(facet.StockIn)
	v := first.View()
	require.Len(t, v.Result.Products, 1)
	assert.Equal(t, "Mug", v.Result.Products[0].Name)

	second := rt.NewSession()
	require.NoError(t, second.Load(context.Background(), "homeware"))
	assert.Equal(t, 1, memoryCalls, "second session served from cache")

	require.NoError(t, rt.Snapshots.Invalidate(context.Background()))
	require.NoError(t, second.Refresh(context.Background()))
	assert.Equal(t, 2, memoryCalls)
}

func TestNewRuntime_Errors(t *testing.T) {
	_, err := NewRuntime(context.Background(), testConfig("nope"), nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown snapshot source")

	_, err = NewRuntime(context.Background(), testConfig("broken"), nil, Options{})
	assert.EqualError(t, err, "no backend")

	cfg := testConfig("memory")
	cfg.Taxonomy = "furniture"
	_, err = NewRuntime(context.Background(), cfg, nil, Options{})
	assert.Error(t, err)
}

func TestSources(t *testing.T) {
	assert.Equal(t, []string{"broken", "db", "gated", "memory", "search"}, Sources())
	assert.Panics(t, func() { RegisterSource("late", nil) })
}

func TestRuntime_InvalidateScopesRefetch(t *testing.T) {
	memoryCalls = 0
	ctx := context.Background()
	rt, err := NewRuntime(ctx, testConfig("memory"), nil, Options{})
	require.NoError(t, err)

	s := rt.NewSession()
	require.NoError(t, s.Load(ctx, "homeware"))
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, 1, memoryCalls)

	require.NoError(t, rt.Invalidate(ctx, "homeware"))
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, 2, memoryCalls)

	require.NoError(t, rt.Invalidate(ctx))
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, 3, memoryCalls)
}

func TestRuntime_InvalidateDetachesInFlightLoad(t *testing.T) {
	ctx := context.Background()
	rt, err := NewRuntime(ctx, testConfig("gated"), nil, Options{})
	require.NoError(t, err)

	stale := rt.NewSession()
	done := make(chan error, 1)
	go func() { done <- stale.Load(ctx, "homeware") }()
	<-gatedStarted

	require.NoError(t, rt.Invalidate(ctx, "homeware"))
	fresh := rt.NewSession()
	require.NoError(t, fresh.Load(ctx, "homeware"), "new load does not join the detached fetch")
	<-gatedStarted
	assert.Equal(t, int32(2), gatedCalls.Load())
	v := fresh.View()
	require.Len(t, v.Result.Products, 1)
	assert.Equal(t, uint(2), v.Result.Products[0].ID)

	close(gatedRelease)
	require.NoError(t, <-done)
	assert.Equal(t, session.Ready, stale.View().State)
}
