package inventory

import (
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLot(t *testing.T, expiry time.Time, quantity int64) *StockLot {
	t.Helper()
	lot, err := NewStockLot(uuid.New(), uuid.New(), "LOT-001", expiry, valueobject.NewMoneyXOFFromInt(150), "Laborex")
	require.NoError(t, err)
	if quantity > 0 {
		_, err = lot.Apply(MovementInward, ReasonPurchase, quantity, uuid.New(), "", nil)
		require.NoError(t, err)
	}
	lot.ClearDomainEvents()
	return lot
}

func TestNewStockLot(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)

	t.Run("creates lot successfully", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), "LOT-2025-42", expiry, valueobject.NewMoneyXOFFromInt(150), "Ubipharm")

		require.NoError(t, err)
		assert.Equal(t, int64(0), lot.Quantity)
		assert.Equal(t, LotStatusActive, lot.Status)
		assert.Equal(t, "Ubipharm", lot.Supplier)
		assert.Len(t, lot.GetDomainEvents(), 1)
	})

	t.Run("fails without lot number", func(t *testing.T) {
		_, err := NewStockLot(uuid.New(), uuid.New(), "", expiry, valueobject.ZeroXOF(), "")

		require.Error(t, err)
	})

	t.Run("fails without expiry date", func(t *testing.T) {
		_, err := NewStockLot(uuid.New(), uuid.New(), "LOT-1", time.Time{}, valueobject.ZeroXOF(), "")

		require.Error(t, err)
	})
}

func TestStockLot_Apply(t *testing.T) {
	expiry := time.Now().AddDate(0, 6, 0)
	actor := uuid.New()

	t.Run("inward movement increases quantity and captures before and after", func(t *testing.T) {
		lot := newTestLot(t, expiry, 0)

		m, err := lot.Apply(MovementInward, ReasonPurchase, 30, actor, "livraison", nil)

		require.NoError(t, err)
		assert.Equal(t, int64(30), lot.Quantity)
		assert.Equal(t, int64(0), m.QuantityBefore)
		assert.Equal(t, int64(30), m.QuantityAfter)
		assert.Equal(t, MovementInward, m.Direction)
	})

	t.Run("outward movement decreases quantity", func(t *testing.T) {
		lot := newTestLot(t, expiry, 30)

		m, err := lot.Apply(MovementOutward, ReasonSale, 12, actor, "", nil)

		require.NoError(t, err)
		assert.Equal(t, int64(18), lot.Quantity)
		assert.Equal(t, int64(30), m.QuantityBefore)
		assert.Equal(t, int64(18), m.QuantityAfter)
	})

	t.Run("movement chain conserves quantity", func(t *testing.T) {
		lot := newTestLot(t, expiry, 0)

		m1, err := lot.Apply(MovementInward, ReasonPurchase, 50, actor, "", nil)
		require.NoError(t, err)
		m2, err := lot.Apply(MovementOutward, ReasonSale, 20, actor, "", nil)
		require.NoError(t, err)
		m3, err := lot.Apply(MovementOutward, ReasonSale, 5, actor, "", nil)
		require.NoError(t, err)

		assert.Equal(t, m1.QuantityAfter, m2.QuantityBefore)
		assert.Equal(t, m2.QuantityAfter, m3.QuantityBefore)
		assert.Equal(t, int64(25), lot.Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		lot := newTestLot(t, expiry, 10)

		_, err := lot.Apply(MovementOutward, ReasonSale, 0, actor, "", nil)

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
		assert.Equal(t, int64(10), lot.Quantity)
	})

	t.Run("rejects outward exceeding on-hand quantity", func(t *testing.T) {
		lot := newTestLot(t, expiry, 10)

		_, err := lot.Apply(MovementOutward, ReasonSale, 11, actor, "", nil)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(10), lot.Quantity)
	})

	t.Run("rejects movement on destroyed lot", func(t *testing.T) {
		lot := newTestLot(t, expiry, 10)
		_, err := lot.Destroy(actor, "casse")
		require.NoError(t, err)

		_, err = lot.Apply(MovementInward, ReasonPurchase, 5, actor, "", nil)

		require.Error(t, err)
	})
}

func TestStockLot_Destroy(t *testing.T) {
	actor := uuid.New()

	t.Run("zeroes quantity via destruction movement", func(t *testing.T) {
		lot := newTestLot(t, time.Now().AddDate(0, 1, 0), 40)

		m, err := lot.Destroy(actor, "produits endommages")

		require.NoError(t, err)
		assert.Equal(t, int64(0), lot.Quantity)
		assert.Equal(t, LotStatusDestroyed, lot.Status)
		require.NotNil(t, m)
		assert.Equal(t, ReasonDestruction, m.Reason)
		assert.Equal(t, int64(40), m.Quantity)
	})

	t.Run("empty lot destroys without movement", func(t *testing.T) {
		lot := newTestLot(t, time.Now().AddDate(0, 1, 0), 0)

		m, err := lot.Destroy(actor, "")

		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, LotStatusDestroyed, lot.Status)
	})

	t.Run("cannot destroy twice", func(t *testing.T) {
		lot := newTestLot(t, time.Now().AddDate(0, 1, 0), 5)
		_, err := lot.Destroy(actor, "")
		require.NoError(t, err)

		_, err = lot.Destroy(actor, "")

		require.Error(t, err)
	})
}

func TestStockLot_EffectiveStatus(t *testing.T) {
	now := time.Now()

	t.Run("stored active lot past expiry reads as expired", func(t *testing.T) {
		lot := newTestLot(t, now.Add(-24*time.Hour), 10)

		assert.Equal(t, LotStatusActive, lot.Status)
		assert.Equal(t, LotStatusExpired, lot.EffectiveStatus(now))
		assert.False(t, lot.IsAllocatable(now))
	})

	t.Run("destroyed wins over expiry", func(t *testing.T) {
		lot := newTestLot(t, now.Add(-24*time.Hour), 0)
		_, err := lot.Destroy(uuid.New(), "")
		require.NoError(t, err)

		assert.Equal(t, LotStatusDestroyed, lot.EffectiveStatus(now))
	})

	t.Run("future expiry stays active", func(t *testing.T) {
		lot := newTestLot(t, now.AddDate(0, 3, 0), 10)

		assert.Equal(t, LotStatusActive, lot.EffectiveStatus(now))
		assert.True(t, lot.IsAllocatable(now))
	})
}

func TestStockLot_MarkExpired(t *testing.T) {
	now := time.Now()

	t.Run("persists expired status once reached", func(t *testing.T) {
		lot := newTestLot(t, now.Add(-time.Hour), 10)

		require.NoError(t, lot.MarkExpired(now))
		assert.Equal(t, LotStatusExpired, lot.Status)
	})

	t.Run("rejects before expiry date", func(t *testing.T) {
		lot := newTestLot(t, now.AddDate(0, 1, 0), 10)

		require.Error(t, lot.MarkExpired(now))
	})
}
