package inventory

import (
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productWithThreshold(t *testing.T, pharmacyID uuid.UUID, name string, threshold int64) catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(pharmacyID, catalog.NewProductParams{
		CommercialName: name,
		UnitPrice:      valueobject.NewMoneyXOFFromInt(100),
		MinStock:       threshold,
	})
	require.NoError(t, err)
	return *p
}

func TestDeriveLowStockAlerts(t *testing.T) {
	now := time.Now()
	pharmacyID := uuid.New()
	future := now.AddDate(1, 0, 0)
	entry := now.AddDate(0, -1, 0)

	t.Run("bands severity against the threshold", func(t *testing.T) {
		product := productWithThreshold(t, pharmacyID, "Amoxicilline 500mg", 20)

		cases := []struct {
			name     string
			quantity int64
			want     []AlertSeverity
		}{
			{"critical below half threshold", 8, []AlertSeverity{SeverityCritical}},
			{"warning below threshold", 15, []AlertSeverity{SeverityWarning}},
			{"no alert at or above threshold", 25, nil},
			{"exactly at threshold reports nothing", 20, nil},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				lot := lotWith(t, product.ID, "L", future, entry, tc.quantity)

				alerts := DeriveLowStockAlerts([]catalog.Product{product}, []StockLot{lot}, now)

				require.Len(t, alerts, len(tc.want))
				for i, sev := range tc.want {
					assert.Equal(t, sev, alerts[i].Severity)
					assert.Equal(t, tc.quantity, alerts[i].TotalQuantity)
					assert.Equal(t, int64(20), alerts[i].Threshold)
				}
			})
		}
	})

	t.Run("sums only allocatable lots", func(t *testing.T) {
		product := productWithThreshold(t, pharmacyID, "Doliprane", 20)
		good := lotWith(t, product.ID, "G", future, entry, 10)
		expired := lotWith(t, product.ID, "E", now.AddDate(0, 0, -1), entry, 100)

		alerts := DeriveLowStockAlerts([]catalog.Product{product}, []StockLot{good, expired}, now)

		require.Len(t, alerts, 1)
		assert.Equal(t, int64(10), alerts[0].TotalQuantity)
		assert.Equal(t, SeverityWarning, alerts[0].Severity)
	})

	t.Run("skips products without threshold", func(t *testing.T) {
		product := productWithThreshold(t, pharmacyID, "Sans seuil", 0)

		alerts := DeriveLowStockAlerts([]catalog.Product{product}, nil, now)

		assert.Empty(t, alerts)
	})

	t.Run("critical alerts sort first", func(t *testing.T) {
		warn := productWithThreshold(t, pharmacyID, "A-warn", 20)
		crit := productWithThreshold(t, pharmacyID, "Z-crit", 20)
		lots := []StockLot{
			lotWith(t, warn.ID, "W", future, entry, 15),
			lotWith(t, crit.ID, "C", future, entry, 2),
		}

		alerts := DeriveLowStockAlerts([]catalog.Product{warn, crit}, lots, now)

		require.Len(t, alerts, 2)
		assert.Equal(t, SeverityCritical, alerts[0].Severity)
		assert.Equal(t, "Z-crit", alerts[0].CommercialName)
	})
}

func TestDeriveExpiryAlerts(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	productID := uuid.New()
	entry := now.AddDate(0, -6, 0)

	t.Run("reports lots within the horizon sorted ascending", func(t *testing.T) {
		in10 := lotWith(t, productID, "D10", now.AddDate(0, 0, 10), entry, 5)
		in25 := lotWith(t, productID, "D25", now.AddDate(0, 0, 25), entry, 5)
		in60 := lotWith(t, productID, "D60", now.AddDate(0, 0, 60), entry, 5)

		alerts := DeriveExpiryAlerts([]StockLot{in60, in25, in10}, 30, now)

		require.Len(t, alerts, 2)
		assert.Equal(t, "D10", alerts[0].LotNumber)
		assert.Equal(t, "D25", alerts[1].LotNumber)
		assert.False(t, alerts[0].Expired)
		assert.LessOrEqual(t, alerts[0].DaysRemaining, alerts[1].DaysRemaining)
	})

	t.Run("a lot expiring within a day still reads as expiring soon", func(t *testing.T) {
		lastDay := lotWith(t, productID, "TODAY", now.Add(12*time.Hour), entry, 5)

		alerts := DeriveExpiryAlerts([]StockLot{lastDay}, 30, now)

		require.Len(t, alerts, 1)
		assert.False(t, alerts[0].Expired)
		assert.Equal(t, 1, alerts[0].DaysRemaining)
	})

	t.Run("already expired lots are flagged separately and first", func(t *testing.T) {
		expired := lotWith(t, productID, "EXP", now.AddDate(0, 0, -3), entry, 5)
		soon := lotWith(t, productID, "SOON", now.AddDate(0, 0, 5), entry, 5)

		alerts := DeriveExpiryAlerts([]StockLot{soon, expired}, 30, now)

		require.Len(t, alerts, 2)
		assert.True(t, alerts[0].Expired)
		assert.Equal(t, "EXP", alerts[0].LotNumber)
		assert.False(t, alerts[1].Expired)
	})

	t.Run("wider horizon picks up more lots", func(t *testing.T) {
		in60 := lotWith(t, productID, "D60", now.AddDate(0, 0, 60), entry, 5)

		assert.Empty(t, DeriveExpiryAlerts([]StockLot{in60}, 30, now))
		assert.Len(t, DeriveExpiryAlerts([]StockLot{in60}, 90, now), 1)
	})

	t.Run("ignores destroyed and empty lots", func(t *testing.T) {
		destroyed := lotWith(t, productID, "DES", now.AddDate(0, 0, 5), entry, 5)
		_, err := (&destroyed).Destroy(uuid.New(), "")
		require.NoError(t, err)
		empty := lotWith(t, productID, "EMPTY", now.AddDate(0, 0, 5), entry, 0)

		alerts := DeriveExpiryAlerts([]StockLot{destroyed, empty}, 30, now)

		assert.Empty(t, alerts)
	})
}
