package delivery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func announcedDelivery(t *testing.T, quantities ...int64) *Delivery {
	t.Helper()
	lines := make([]LineInput, 0, len(quantities))
	for _, q := range quantities {
		lines = append(lines, LineInput{
			ProductID:   uuid.New(),
			ProductName: "Amoxicilline 500mg",
			Quantity:    q,
			UnitPrice:   decimal.NewFromInt(1200),
		})
	}
	d, err := NewDelivery(uuid.New(), uuid.New(), "BL-2026-0815", "CMD-2026-0799", lines)
	require.NoError(t, err)
	return d
}

func checkAllConform(t *testing.T, d *Delivery) {
	t.Helper()
	expiry := time.Now().AddDate(2, 0, 0)
	for i := range d.Lines {
		require.NoError(t, d.CheckLine(d.Lines[i].ID, d.Lines[i].OrderedQuantity, "LOT-A1", &expiry))
	}
}

func TestNewDelivery(t *testing.T) {
	t.Run("registers pending delivery", func(t *testing.T) {
		d := announcedDelivery(t, 50, 30)

		assert.Equal(t, StatusPending, d.Status)
		assert.Len(t, d.Lines, 2)
		assert.Equal(t, "BL-2026-0815", d.SlipNumber)
	})

	t.Run("rejects missing slip number", func(t *testing.T) {
		_, err := NewDelivery(uuid.New(), uuid.New(), "  ", "", []LineInput{
			{ProductID: uuid.New(), Quantity: 10},
		})
		assert.Error(t, err)
	})
}

func TestDelivery_CheckLine(t *testing.T) {
	t.Run("derives line status from counted quantity", func(t *testing.T) {
		d := announcedDelivery(t, 50, 30, 20)
		require.NoError(t, d.MarkReceived(time.Now()))
		expiry := time.Now().AddDate(1, 6, 0)

		require.NoError(t, d.CheckLine(d.Lines[0].ID, 50, "LOT-A1", &expiry))
		require.NoError(t, d.CheckLine(d.Lines[1].ID, 25, "LOT-B2", &expiry))
		require.NoError(t, d.CheckLine(d.Lines[2].ID, 0, "", nil))

		assert.Equal(t, LineConform, d.Lines[0].Status)
		assert.Equal(t, LineVariance, d.Lines[1].Status)
		assert.Equal(t, LineMissing, d.Lines[2].Status)
		assert.True(t, d.HasDiscrepancies())
	})

	t.Run("cannot check before receiving", func(t *testing.T) {
		d := announcedDelivery(t, 50)
		err := d.CheckLine(d.Lines[0].ID, 50, "LOT-A1", nil)
		assert.Error(t, err)
	})
}

func TestDelivery_FinishCheck(t *testing.T) {
	t.Run("requires all lines checked", func(t *testing.T) {
		d := announcedDelivery(t, 50, 30)
		require.NoError(t, d.MarkReceived(time.Now()))
		expiry := time.Now().AddDate(2, 0, 0)
		require.NoError(t, d.CheckLine(d.Lines[0].ID, 50, "LOT-A1", &expiry))

		assert.Error(t, d.FinishCheck(uuid.New()))

		require.NoError(t, d.CheckLine(d.Lines[1].ID, 30, "LOT-B2", &expiry))
		require.NoError(t, d.FinishCheck(uuid.New()))
		assert.Equal(t, StatusChecked, d.Status)
	})
}

func TestDelivery_Validate(t *testing.T) {
	t.Run("returns delivered lines for lot creation", func(t *testing.T) {
		d := announcedDelivery(t, 50, 30)
		require.NoError(t, d.MarkReceived(time.Now()))
		expiry := time.Now().AddDate(2, 0, 0)
		require.NoError(t, d.CheckLine(d.Lines[0].ID, 50, "LOT-A1", &expiry))
		require.NoError(t, d.CheckLine(d.Lines[1].ID, 0, "", nil))
		require.NoError(t, d.FinishCheck(uuid.New()))

		received, err := d.Validate(uuid.New(), time.Now())
		require.NoError(t, err)

		require.Len(t, received, 1)
		assert.Equal(t, "LOT-A1", received[0].LotNumber)
		assert.Equal(t, int64(50), received[0].Quantity)
		assert.Equal(t, StatusValidated, d.Status)
	})

	t.Run("rejects delivered line without lot details", func(t *testing.T) {
		d := announcedDelivery(t, 50)
		require.NoError(t, d.MarkReceived(time.Now()))
		require.NoError(t, d.CheckLine(d.Lines[0].ID, 50, "", nil))
		require.NoError(t, d.FinishCheck(uuid.New()))

		_, err := d.Validate(uuid.New(), time.Now())
		assert.Error(t, err)
	})

	t.Run("disputed delivery can still be validated", func(t *testing.T) {
		d := announcedDelivery(t, 50)
		require.NoError(t, d.MarkReceived(time.Now()))
		expiry := time.Now().AddDate(2, 0, 0)
		require.NoError(t, d.CheckLine(d.Lines[0].ID, 40, "LOT-A1", &expiry))
		require.NoError(t, d.FinishCheck(uuid.New()))
		require.NoError(t, d.Dispute("10 boites manquantes"))

		received, err := d.Validate(uuid.New(), time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(40), received[0].Quantity)
	})

	t.Run("cannot validate twice", func(t *testing.T) {
		d := announcedDelivery(t, 50)
		require.NoError(t, d.MarkReceived(time.Now()))
		checkAllConform(t, d)
		require.NoError(t, d.FinishCheck(uuid.New()))
		_, err := d.Validate(uuid.New(), time.Now())
		require.NoError(t, err)

		_, err = d.Validate(uuid.New(), time.Now())
		assert.Error(t, err)
	})
}

func TestDelivery_Dispute(t *testing.T) {
	t.Run("conform delivery cannot be disputed", func(t *testing.T) {
		d := announcedDelivery(t, 50)
		require.NoError(t, d.MarkReceived(time.Now()))
		checkAllConform(t, d)
		require.NoError(t, d.FinishCheck(uuid.New()))

		assert.Error(t, d.Dispute("rien"))
	})
}
