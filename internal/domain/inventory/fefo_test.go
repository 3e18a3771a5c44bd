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

func lotWith(t *testing.T, productID uuid.UUID, number string, expiry, entry time.Time, qty int64) StockLot {
	t.Helper()
	lot, err := NewStockLot(uuid.New(), productID, number, expiry, valueobject.ZeroXOF(), "")
	require.NoError(t, err)
	lot.EntryDate = entry
	if qty > 0 {
		_, err = lot.Apply(MovementInward, ReasonPurchase, qty, uuid.New(), "", nil)
		require.NoError(t, err)
	}
	return *lot
}

func TestPlanFEFO(t *testing.T) {
	now := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()
	entry := now.AddDate(0, -2, 0)

	expJan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expFeb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("takes from earliest expiry first and spills", func(t *testing.T) {
		a := lotWith(t, productID, "A", expJan, entry, 5)
		b := lotWith(t, productID, "B", expFeb, entry, 5)

		plan, err := PlanFEFO(productID, []StockLot{b, a}, 7, now)

		require.NoError(t, err)
		require.Len(t, plan.Lines, 2)
		assert.Equal(t, a.ID, plan.Lines[0].LotID)
		assert.Equal(t, int64(5), plan.Lines[0].Quantity)
		assert.Equal(t, b.ID, plan.Lines[1].LotID)
		assert.Equal(t, int64(2), plan.Lines[1].Quantity)
		assert.Equal(t, int64(7), plan.TotalAllocated())
	})

	t.Run("single lot satisfies without spilling", func(t *testing.T) {
		a := lotWith(t, productID, "A", expJan, entry, 5)
		b := lotWith(t, productID, "B", expFeb, entry, 5)

		plan, err := PlanFEFO(productID, []StockLot{a, b}, 4, now)

		require.NoError(t, err)
		require.Len(t, plan.Lines, 1)
		assert.Equal(t, a.ID, plan.Lines[0].LotID)
		assert.Equal(t, int64(4), plan.Lines[0].Quantity)
	})

	t.Run("fails all-or-nothing when total available is short", func(t *testing.T) {
		a := lotWith(t, productID, "A", expJan, entry, 5)
		b := lotWith(t, productID, "B", expFeb, entry, 5)

		plan, err := PlanFEFO(productID, []StockLot{a, b}, 11, now)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Nil(t, plan)
		// Planning never mutates the lots
		assert.Equal(t, int64(5), a.Quantity)
		assert.Equal(t, int64(5), b.Quantity)
	})

	t.Run("skips expired lots", func(t *testing.T) {
		expired := lotWith(t, productID, "OLD", now.AddDate(0, 0, -1), entry, 100)
		fresh := lotWith(t, productID, "NEW", expFeb, entry, 5)

		plan, err := PlanFEFO(productID, []StockLot{expired, fresh}, 5, now)

		require.NoError(t, err)
		require.Len(t, plan.Lines, 1)
		assert.Equal(t, fresh.ID, plan.Lines[0].LotID)

		_, err = PlanFEFO(productID, []StockLot{expired, fresh}, 6, now)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("skips destroyed lots and other products", func(t *testing.T) {
		destroyed := lotWith(t, productID, "D", expFeb, entry, 50)
		_, err := (&destroyed).Destroy(uuid.New(), "")
		require.NoError(t, err)
		other := lotWith(t, uuid.New(), "X", expJan, entry, 50)
		mine := lotWith(t, productID, "M", expFeb, entry, 3)

		plan, err := PlanFEFO(productID, []StockLot{destroyed, other, mine}, 3, now)

		require.NoError(t, err)
		require.Len(t, plan.Lines, 1)
		assert.Equal(t, mine.ID, plan.Lines[0].LotID)
	})

	t.Run("same expiry breaks tie by entry date then ID", func(t *testing.T) {
		older := lotWith(t, productID, "OLDER", expFeb, now.AddDate(0, -3, 0), 5)
		newer := lotWith(t, productID, "NEWER", expFeb, now.AddDate(0, -1, 0), 5)

		plan, err := PlanFEFO(productID, []StockLot{newer, older}, 6, now)

		require.NoError(t, err)
		require.Len(t, plan.Lines, 2)
		assert.Equal(t, older.ID, plan.Lines[0].LotID)
		assert.Equal(t, int64(5), plan.Lines[0].Quantity)
		assert.Equal(t, newer.ID, plan.Lines[1].LotID)
		assert.Equal(t, int64(1), plan.Lines[1].Quantity)
	})

	t.Run("rejects non-positive request", func(t *testing.T) {
		_, err := PlanFEFO(productID, nil, 0, now)

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}
