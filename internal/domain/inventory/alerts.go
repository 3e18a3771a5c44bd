package inventory

import (
	"sort"
	"time"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// AlertSeverity bands a low-stock alert
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "CRITICAL" // below half the threshold
	SeverityWarning  AlertSeverity = "WARNING"  // below the threshold
)

// LowStockAlert reports a product whose summed active-lot quantity fell
// under its minimum-stock threshold
type LowStockAlert struct {
	ProductID      uuid.UUID     `json:"product_id"`
	CommercialName string        `json:"commercial_name"`
	TotalQuantity  int64         `json:"total_quantity"`
	Threshold      int64         `json:"threshold"`
	Severity       AlertSeverity `json:"severity"`
}

// ExpiryAlert reports a lot approaching or past its expiry date
type ExpiryAlert struct {
	LotID         uuid.UUID `json:"lot_id"`
	ProductID     uuid.UUID `json:"product_id"`
	LotNumber     string    `json:"lot_number"`
	Quantity      int64     `json:"quantity"`
	ExpiryDate    time.Time `json:"expiry_date"`
	DaysRemaining int       `json:"days_remaining"`
	Expired       bool      `json:"expired"`
}

// DeriveLowStockAlerts computes low-stock alerts from current ledger state.
// Per product, the quantities of allocatable lots are summed and compared
// to the product's threshold: below 50% is CRITICAL, below 100% WARNING,
// at or above the threshold no alert. Products without a threshold are
// skipped. Alerts are derived on demand - there is no persisted alert table
// to go stale.
func DeriveLowStockAlerts(products []catalog.Product, lots []StockLot, now time.Time) []LowStockAlert {
	totals := make(map[uuid.UUID]int64, len(products))
	for _, lot := range lots {
		if lot.IsAllocatable(now) {
			totals[lot.ProductID] += lot.Quantity
		}
	}

	alerts := make([]LowStockAlert, 0)
	for _, product := range products {
		if product.MinStock <= 0 {
			continue
		}
		total := totals[product.ID]
		if total >= product.MinStock {
			continue
		}

		severity := SeverityWarning
		if total*2 < product.MinStock {
			severity = SeverityCritical
		}

		alerts = append(alerts, LowStockAlert{
			ProductID:      product.ID,
			CommercialName: product.CommercialName,
			TotalQuantity:  total,
			Threshold:      product.MinStock,
			Severity:       severity,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity == SeverityCritical
		}
		return alerts[i].CommercialName < alerts[j].CommercialName
	})

	return alerts
}

// DeriveExpiryAlerts computes expiry alerts for non-destroyed lots that
// still hold stock. Lots expiring within horizonDays are reported sorted by
// days remaining ascending; lots already past expiry are reported with
// Expired set, distinct from "expiring soon". The horizon is a parameter so
// callers stop hard-coding their own windows.
func DeriveExpiryAlerts(lots []StockLot, horizonDays int, now time.Time) []ExpiryAlert {
	alerts := make([]ExpiryAlert, 0)
	for _, lot := range lots {
		if lot.Status == LotStatusDestroyed || lot.Quantity <= 0 {
			continue
		}

		days := lot.DaysUntilExpiry(now)
		expired := lot.IsExpired(now)
		if !expired && days > horizonDays {
			continue
		}

		alerts = append(alerts, ExpiryAlert{
			LotID:         lot.ID,
			ProductID:     lot.ProductID,
			LotNumber:     lot.LotNumber,
			Quantity:      lot.Quantity,
			ExpiryDate:    lot.ExpiryDate,
			DaysRemaining: days,
			Expired:       expired,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		// Expired lots first, then soonest expiry
		if alerts[i].Expired != alerts[j].Expired {
			return alerts[i].Expired
		}
		return alerts[i].DaysRemaining < alerts[j].DaysRemaining
	})

	return alerts
}
