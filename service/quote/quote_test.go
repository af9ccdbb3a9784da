package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront.GO/model/entity/entitytest"
)

func newService(t *testing.T) *Service {
	t.Helper()
	db := entitytest.Open(t)
	entitytest.Seed(t, db)
	svc, err := NewService(db)
	require.NoError(t, err)
	return svc
}

func TestQuote_PriceFollowsRuleWindows(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	q, err := svc.Quote(ctx, Request{Ref: "tee-classic", At: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "20", q.BasePrice.String())
	assert.Equal(t, "15", q.EffectivePrice.String(), "first stored rule wins")
	assert.Equal(t, 2, q.ActiveRules)
	require.NotNil(t, q.LowestTier)
	assert.Equal(t, "17.00", *q.LowestTier)

	q, err = svc.Quote(ctx, Request{Ref: "tee-classic", At: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, "10", q.EffectivePrice.String())
	assert.Equal(t, 1, q.ActiveRules)

	q, err = svc.Quote(ctx, Request{Ref: "tee-classic", At: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, q.EffectivePrice.Equal(q.BasePrice))
	assert.Zero(t, q.ActiveRules)
}

func TestQuote_Stock(t *testing.T) {
	svc := newService(t)

	q, err := svc.Quote(context.Background(), Request{Ref: "tee-classic", SKU: "TEE-BLK-M", Source: entitytest.SourceCode})
	require.NoError(t, err)
	assert.True(t, q.StockFound)
	assert.Equal(t, 0, q.Stock)
	assert.Equal(t, 9, q.TotalStock)

	q, err = svc.Quote(context.Background(), Request{Ref: "hoodie-zip", SKU: "HOOD-BLK-M", Source: "warehouse"})
	require.NoError(t, err)
	assert.False(t, q.StockFound)
	assert.Equal(t, 3, q.TotalStock)
	assert.Nil(t, q.LowestTier)
}

func TestQuote_UnknownRef(t *testing.T) {
	svc := newService(t)
	_, err := svc.Quote(context.Background(), Request{Ref: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}
