package cache

import (
	"context"
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedProduct(t *testing.T, pharmacyID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(pharmacyID, catalog.NewProductParams{
		CommercialName: "Doliprane 1000mg",
		DCI:            "Paracétamol",
		Dosage:         "1000mg",
		Form:           "comprimé",
		UnitPrice:      valueobject.NewMoneyXOFFromInt(650),
		Barcode:        "3400935000125",
	})
	require.NoError(t, err)
	return product
}

func TestInMemoryProductCache(t *testing.T) {
	ctx := context.Background()
	pharmacyID := uuid.New()

	t.Run("set then get returns a copy", func(t *testing.T) {
		cache := NewInMemoryProductCache()
		defer cache.Close()

		product := newCachedProduct(t, pharmacyID)
		cache.Set(ctx, product)

		cached, ok := cache.Get(ctx, pharmacyID, product.ID)
		require.True(t, ok)
		assert.Equal(t, product.ID, cached.ID)
		assert.Equal(t, "Doliprane 1000mg", cached.CommercialName)

		cached.CommercialName = "mutated"
		again, ok := cache.Get(ctx, pharmacyID, product.ID)
		require.True(t, ok)
		assert.Equal(t, "Doliprane 1000mg", again.CommercialName)
	})

	t.Run("miss on unknown product", func(t *testing.T) {
		cache := NewInMemoryProductCache()
		defer cache.Close()

		_, ok := cache.Get(ctx, pharmacyID, uuid.New())
		assert.False(t, ok)

		hits, misses := cache.Stats()
		assert.Equal(t, int64(0), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("invalidate removes the entry", func(t *testing.T) {
		cache := NewInMemoryProductCache()
		defer cache.Close()

		product := newCachedProduct(t, pharmacyID)
		cache.Set(ctx, product)
		cache.Invalidate(ctx, pharmacyID, product.ID)

		_, ok := cache.Get(ctx, pharmacyID, product.ID)
		assert.False(t, ok)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		cache := NewInMemoryProductCache(WithInMemoryTTL(time.Millisecond))
		defer cache.Close()

		product := newCachedProduct(t, pharmacyID)
		cache.Set(ctx, product)

		time.Sleep(5 * time.Millisecond)

		_, ok := cache.Get(ctx, pharmacyID, product.ID)
		assert.False(t, ok)
	})

	t.Run("entries are scoped by pharmacy", func(t *testing.T) {
		cache := NewInMemoryProductCache()
		defer cache.Close()

		product := newCachedProduct(t, pharmacyID)
		cache.Set(ctx, product)

		_, ok := cache.Get(ctx, uuid.New(), product.ID)
		assert.False(t, ok)
	})
}
