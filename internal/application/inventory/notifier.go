package inventory

import (
	"context"

	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// Notifier receives alert digests for out-of-band delivery. The delivery
// channels themselves (WhatsApp, SMTP) live outside this module; a
// deployment plugs its own implementation in, and without one alerts
// stay pull-only through the HTTP reads.
type Notifier interface {
	NotifyAlerts(ctx context.Context, pharmacyID uuid.UUID, lowStock []inventory.LowStockAlert, expiry []inventory.ExpiryAlert) error
}
