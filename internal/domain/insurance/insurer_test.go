package insurance

import (
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInsurer(t *testing.T, rate int64) *Insurer {
	t.Helper()
	insurer, err := NewInsurer(uuid.New(), "IPM Sonatel", KindMutuelle, decimal.NewFromInt(rate))
	require.NoError(t, err)
	return insurer
}

func TestNewInsurer(t *testing.T) {
	t.Run("creates active insurer", func(t *testing.T) {
		insurer := newTestInsurer(t, 80)

		assert.True(t, insurer.IsActive())
		assert.Equal(t, KindMutuelle, insurer.Kind)
		assert.Equal(t, 30, insurer.PaymentDelayDays)
	})

	t.Run("rejects rate above 100", func(t *testing.T) {
		_, err := NewInsurer(uuid.New(), "X", KindAssurance, decimal.NewFromInt(101))
		assert.Error(t, err)
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewInsurer(uuid.New(), "X", InsurerKind("OTHER"), decimal.NewFromInt(50))
		assert.Error(t, err)
	})
}

func TestInsurer_Split(t *testing.T) {
	t.Run("shares sum back to total", func(t *testing.T) {
		insurer := newTestInsurer(t, 80)

		split, err := insurer.Split(valueobject.NewMoneyXOFFromInt(12500), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(10000).Equal(split.InsurerShare))
		assert.True(t, decimal.NewFromInt(2500).Equal(split.PatientShare))
		assert.True(t, split.InsurerShare.Add(split.PatientShare).Equal(split.Total))
	})

	t.Run("rounds insurer share to unit", func(t *testing.T) {
		// 33% of 1000 = 330; 33% of 995 = 328.35 -> 328
		insurer := newTestInsurer(t, 33)

		split, err := insurer.Split(valueobject.NewMoneyXOFFromInt(995), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(328).Equal(split.InsurerShare))
		assert.True(t, decimal.NewFromInt(667).Equal(split.PatientShare))
	})

	t.Run("caps share at monthly ceiling headroom", func(t *testing.T) {
		insurer := newTestInsurer(t, 100)
		require.NoError(t, insurer.SetCeiling(valueobject.NewMoneyXOFFromInt(50000)))

		// member already consumed 47000 this month
		split, err := insurer.Split(valueobject.NewMoneyXOFFromInt(10000), decimal.NewFromInt(47000))
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(3000).Equal(split.InsurerShare))
		assert.True(t, decimal.NewFromInt(7000).Equal(split.PatientShare))
	})

	t.Run("exhausted ceiling leaves patient paying everything", func(t *testing.T) {
		insurer := newTestInsurer(t, 80)
		require.NoError(t, insurer.SetCeiling(valueobject.NewMoneyXOFFromInt(50000)))

		split, err := insurer.Split(valueobject.NewMoneyXOFFromInt(10000), decimal.NewFromInt(60000))
		require.NoError(t, err)

		assert.True(t, split.InsurerShare.IsZero())
		assert.True(t, decimal.NewFromInt(10000).Equal(split.PatientShare))
	})

	t.Run("zero ceiling means no cap", func(t *testing.T) {
		insurer := newTestInsurer(t, 50)

		split, err := insurer.Split(valueobject.NewMoneyXOFFromInt(1000000), decimal.NewFromInt(999999))
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(500000).Equal(split.InsurerShare))
	})
}

func TestClaim_Lifecycle(t *testing.T) {
	newPendingClaim := func(t *testing.T) *Claim {
		t.Helper()
		insurer := newTestInsurer(t, 80)
		split, err := insurer.Split(valueobject.NewMoneyXOFFromInt(10000), decimal.Zero)
		require.NoError(t, err)

		claim, err := NewClaim(uuid.New(), uuid.New(), uuid.New(), "IPM-00482", "VNT-2026-0042", split, time.Now())
		require.NoError(t, err)
		return claim
	}

	t.Run("pending to invoiced to paid", func(t *testing.T) {
		claim := newPendingClaim(t)
		assert.Equal(t, ClaimPending, claim.Status)

		require.NoError(t, claim.MarkInvoiced("FAC-2026-08", time.Now()))
		assert.Equal(t, ClaimInvoiced, claim.Status)
		assert.Equal(t, "FAC-2026-08", claim.InvoiceRef)

		require.NoError(t, claim.MarkPaid(time.Now()))
		assert.Equal(t, ClaimPaid, claim.Status)
	})

	t.Run("cannot settle a pending claim", func(t *testing.T) {
		claim := newPendingClaim(t)
		assert.Error(t, claim.MarkPaid(time.Now()))
	})

	t.Run("cannot invoice twice", func(t *testing.T) {
		claim := newPendingClaim(t)
		require.NoError(t, claim.MarkInvoiced("FAC-1", time.Now()))
		assert.Error(t, claim.MarkInvoiced("FAC-2", time.Now()))
	})

	t.Run("rejects claim with zero insurer share", func(t *testing.T) {
		split := CoverageSplit{Total: decimal.NewFromInt(100), InsurerShare: decimal.Zero, PatientShare: decimal.NewFromInt(100)}
		_, err := NewClaim(uuid.New(), uuid.New(), uuid.New(), "IPM-1", "VNT-1", split, time.Now())
		assert.Error(t, err)
	})
}
