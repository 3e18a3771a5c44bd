package delivery

import (
	"github.com/asspharma/backend/internal/domain/shared"
)

// DeliveryValidatedEvent is emitted when a delivery is validated and its
// stock enters the ledger
type DeliveryValidatedEvent struct {
	shared.BaseDomainEvent
	SupplierID       string `json:"supplier_id"`
	SlipNumber       string `json:"slip_number"`
	ReceivedLines    int    `json:"received_lines"`
	HasDiscrepancies bool   `json:"has_discrepancies"`
}

// NewDeliveryValidatedEvent creates a delivery validated event
func NewDeliveryValidatedEvent(d *Delivery, receivedLines int) *DeliveryValidatedEvent {
	return &DeliveryValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			"delivery.validated",
			"Delivery",
			d.ID,
			d.GetPharmacyID(),
		),
		SupplierID:       d.SupplierID.String(),
		SlipNumber:       d.SlipNumber,
		ReceivedLines:    receivedLines,
		HasDiscrepancies: d.HasDiscrepancies(),
	}
}
