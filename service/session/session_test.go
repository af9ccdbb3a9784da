package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront.GO/model/entity/product"
	"storefront.GO/service/facet"
)

var errBackend = errors.New("backend down")

type fakeFetcher struct {
	mu       sync.Mutex
	calls    map[string]int
	gates    map[string]chan struct{}
	started  chan string
	failures map[string]error
	data     []product.Product
}

func newFakeFetcher(data []product.Product) *fakeFetcher {
	return &fakeFetcher{
		calls:    make(map[string]int),
		gates:    make(map[string]chan struct{}),
		started:  make(chan string, 16),
		failures: make(map[string]error),
		data:     data,
	}
}

func (f *fakeFetcher) gate(scope string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[scope] = ch
	return ch
}

func (f *fakeFetcher) fail(scope string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[scope] = err
}

func (f *fakeFetcher) callCount(scope string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[scope]
}

func (f *fakeFetcher) FetchSnapshot(ctx context.Context, scope string) ([]product.Product, error) {
	f.mu.Lock()
	f.calls[scope]++
	gate := f.gates[scope]
	err := f.failures[scope]
	f.mu.Unlock()

	f.started <- scope
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return f.data, nil
}

func snapshot() []product.Product {
	return []product.Product{
		{
			ID: 1, Name: "Classic Tee", CategoryTags: []string{"T-Shirts"}, BasePrice: decimal.NewFromInt(20), Published: true,
			Variations: []product.Variation{
				{ID: 11, Color: "Black", Size: "M", StockQuantity: 2},
				{ID: 12, Color: "Red", Size: "L", StockQuantity: 0},
			},
		},
		{
			ID: 2, Name: "Red Tee", CategoryTags: []string{"tee"}, BasePrice: decimal.NewFromInt(18), Published: true,
			Variations: []product.Variation{{ID: 21, Color: "Red", Size: "S", StockQuantity: 4}},
		},
		{
			ID: 3, Name: "Zip Hoodie", CategoryTags: []string{"Hoodies"}, BasePrice: decimal.NewFromInt(45), Published: true,
			Variations: []product.Variation{{ID: 31, Color: "Black", Size: "L", StockQuantity: 1}},
		},
	}
}

func newSession(f Fetcher) *Session {
	return New(Options{Loader: NewLoader(f, nil)})
}

func productIDs(v View) []uint {
	var out []uint
	for _, p := range v.Result.Products {
		out = append(out, p.ID)
	}
	return out
}

func TestSession_LoadReachesReady(t *testing.T) {
	f := newFakeFetcher(snapshot())
	s := newSession(f)
	assert.Equal(t, Uninitialized, s.View().State)

	require.NoError(t, s.Load(context.Background(), "t-shirts"))

	v := s.View()
	assert.Equal(t, Ready, v.State)
	assert.Equal(t, "t-shirts", v.Scope)
	assert.Equal(t, []uint{1, 2}, productIDs(v))
	assert.NoError(t, v.Err)
}

func TestSession_RefreshBeforeLoad(t *testing.T) {
	s := newSession(newFakeFetcher(nil))
	assert.ErrorIs(t, s.Refresh(context.Background()), ErrNotLoaded)
}

func TestSession_FetchFailureThenRefresh(t *testing.T) {
	f := newFakeFetcher(snapshot())
	f.fail("t-shirts", errBackend)
	s := newSession(f)

	err := s.Load(context.Background(), "t-shirts")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailure)
	assert.ErrorIs(t, err, errBackend)

	v := s.View()
	assert.Equal(t, Failed, v.State)
	assert.ErrorIs(t, v.Err, ErrFetchFailure)

	// Mutations while failed only touch the filter.
	s.ToggleColor("Black")
	assert.Equal(t, Failed, s.View().State)

	f.fail("t-shirts", nil)
	require.NoError(t, s.Refresh(context.Background()))
	v = s.View()
	assert.Equal(t, Ready, v.State)
	assert.NoError(t, v.Err)
	assert.Equal(t, []uint{1}, productIDs(v))
}

func TestSession_SetScopeResetsColorsKeepsStock(t *testing.T) {
	s := newSession(newFakeFetcher(snapshot()))
	require.NoError(t, s.Load(context.Background(), "t-shirts"))

	s.ToggleColor("Red")
	s.ToggleSize("S")
	s.SetStockLevel(facet.StockIn)
	s.SetSort(facet.SortPriceAsc)
	assert.Equal(t, []uint{2}, productIDs(s.View()))

	s.SetScope("new-scope")

	v := s.View()
	assert.Empty(t, v.Filter.Colors)
	assert.Empty(t, v.Filter.Sizes)
	assert.Equal(t, facet.StockIn, v.Filter.Stock)
	assert.Equal(t, facet.SortPriceAsc, v.Filter.Sort)
	assert.Equal(t, "new-scope", v.Scope)
	assert.Empty(t, v.Result.Products)
}

func TestSession_MutationsRecompute(t *testing.T) {
	s := newSession(newFakeFetcher(snapshot()))
	require.NoError(t, s.Load(context.Background(), "all-in-apparel"))

	s.ToggleColor("Black")
	assert.Equal(t, []uint{1, 3}, productIDs(s.View()))

	s.SetType("hoodies")
	assert.Equal(t, []uint{3}, productIDs(s.View()))

	s.SetSort(facet.SortPriceDesc)
	s.ClearFilters()
	v := s.View()
	assert.Equal(t, facet.SortPriceDesc, v.Filter.Sort)
	assert.Empty(t, v.Filter.Colors)
	assert.Empty(t, v.Filter.Types)
	assert.Equal(t, []uint{3, 1, 2}, productIDs(v))

	s.ToggleColor("Black")
	s.ToggleColor("Black")
	assert.Len(t, s.View().Result.Products, 3)
}

func TestSession_ViewIsACopy(t *testing.T) {
	s := newSession(newFakeFetcher(snapshot()))
	require.NoError(t, s.Load(context.Background(), "t-shirts"))
	s.ToggleColor("Red")

	v := s.View()
	v.Filter.Colors[0] = "Blue"
	assert.Equal(t, []string{"Red"}, s.View().Filter.Colors)
}

func TestSession_StaleFetchDiscarded(t *testing.T) {
	f := newFakeFetcher(snapshot())
	gate := f.gate("t-shirts")
	s := newSession(f)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background(), "t-shirts") }()
	require.Equal(t, "t-shirts", <-f.started)
	assert.Equal(t, Loading, s.View().State)

	require.NoError(t, s.Navigate(context.Background(), "hoodies"))
	require.Equal(t, "hoodies", <-f.started)

	close(gate)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	v := s.View()
	assert.Equal(t, Ready, v.State)
	assert.Equal(t, "hoodies", v.Scope)
	assert.Equal(t, []uint{3}, productIDs(v))
}

func TestSession_RefreshKeepsReadyViewWhileFetching(t *testing.T) {
	f := newFakeFetcher(snapshot())
	s := newSession(f)
	require.NoError(t, s.Load(context.Background(), "t-shirts"))
	<-f.started

	gate := f.gate("t-shirts")
	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	<-f.started

	v := s.View()
	assert.Equal(t, Ready, v.State)
	assert.Len(t, v.Result.Products, 2)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, 2, f.callCount("t-shirts"))
}

func TestSession_CancelledRefreshKeepsFailedState(t *testing.T) {
	f := newFakeFetcher(snapshot())
	s := newSession(f)
	require.NoError(t, s.Load(context.Background(), "t-shirts"))
	<-f.started

	f.fail("t-shirts", errBackend)
	require.ErrorIs(t, s.Refresh(context.Background()), ErrFetchFailure)
	<-f.started
	require.Equal(t, Failed, s.View().State)

	gate := f.gate("t-shirts")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Refresh(ctx) }()
	<-f.started
	assert.Equal(t, Loading, s.View().State)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	close(gate)

	v := s.View()
	assert.Equal(t, Failed, v.State)
	assert.ErrorIs(t, v.Err, ErrFetchFailure)
	assert.Equal(t, []uint{1, 2}, productIDs(v), "last good view kept")
}

func TestSession_CancelledRefreshAfterFailedFirstLoad(t *testing.T) {
	f := newFakeFetcher(snapshot())
	f.fail("caps", errBackend)
	s := newSession(f)
	require.ErrorIs(t, s.Load(context.Background(), "caps"), ErrFetchFailure)
	<-f.started

	gate := f.gate("caps")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Refresh(ctx) }()
	<-f.started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	close(gate)

	v := s.View()
	assert.Equal(t, Failed, v.State)
	assert.ErrorIs(t, v.Err, errBackend)
}

func TestSession_CancelledFirstLoadIsUninitialized(t *testing.T) {
	f := newFakeFetcher(snapshot())
	gate := f.gate("caps")
	s := newSession(f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Load(ctx, "caps") }()
	<-f.started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	close(gate)

	v := s.View()
	assert.Equal(t, Uninitialized, v.State)
	assert.NoError(t, v.Err)
}

func TestSession_LoadRecomputesBeforeFetch(t *testing.T) {
	f := newFakeFetcher(snapshot())
	s := newSession(f)
	require.NoError(t, s.Load(context.Background(), "t-shirts"))
	<-f.started
	s.ToggleColor("Red")
	require.Equal(t, []uint{1, 2}, productIDs(s.View()))

	gate := f.gate("hoodies")
	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background(), "hoodies") }()
	<-f.started

	// Mid-fetch the derived view already matches the new scope and filter.
	v := s.View()
	assert.Equal(t, "hoodies", v.Scope)
	assert.Empty(t, v.Filter.Colors)
	assert.Equal(t, []uint{3}, productIDs(v))

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, []uint{3}, productIDs(s.View()))
}

func TestSession_PageOverView(t *testing.T) {
	s := newSession(newFakeFetcher(snapshot()))
	require.NoError(t, s.Load(context.Background(), "all-in-apparel"))

	items, page := s.View().Page(2, 2)
	require.Len(t, items, 1)
	assert.Equal(t, uint(3), items[0].ID)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNext())
}

func TestLoader_DeduplicatesConcurrentFetches(t *testing.T) {
	f := newFakeFetcher(snapshot())
	gate := f.gate("t-shirts")
	l := NewLoader(f, nil)

	var wg sync.WaitGroup
	results := make([][]product.Product, 3)
	errs := make([]error, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = l.Load(context.Background(), "t-shirts")
		}(i)
	}
	<-f.started
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, f.callCount("t-shirts"))
	for i := range results {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 3)
	}
}

func TestLoader_SharesFailure(t *testing.T) {
	f := newFakeFetcher(nil)
	f.fail("caps", errBackend)
	l := NewLoader(f, nil)

	_, err := l.Load(context.Background(), "caps")
	assert.ErrorIs(t, err, errBackend)
}

func TestLoader_CancelledWaiterDoesNotCancelFetch(t *testing.T) {
	f := newFakeFetcher(snapshot())
	gate := f.gate("t-shirts")
	l := NewLoader(f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "t-shirts")
		first <- err
	}()
	<-f.started

	second := make(chan []product.Product, 1)
	go func() {
		products, _ := l.Load(context.Background(), "t-shirts")
		second <- products
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(gate)
	assert.Len(t, <-second, 3)
}

func TestFetcherFunc(t *testing.T) {
	var got string
	fn := FetcherFunc(func(_ context.Context, scope string) ([]product.Product, error) {
		got = scope
		return nil, nil
	})
	_, err := fn.FetchSnapshot(context.Background(), "caps")
	require.NoError(t, err)
	assert.Equal(t, "caps", got)
}
