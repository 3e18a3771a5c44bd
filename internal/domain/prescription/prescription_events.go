package prescription

import (
	"github.com/asspharma/backend/internal/domain/shared"
)

// PrescriptionCapturedEvent is emitted when an ordonnance is captured
type PrescriptionCapturedEvent struct {
	shared.BaseDomainEvent
	CustomerID     string `json:"customer_id"`
	PrescriberName string `json:"prescriber_name"`
	LineCount      int    `json:"line_count"`
}

// NewPrescriptionCapturedEvent creates a prescription captured event
func NewPrescriptionCapturedEvent(p *Prescription) *PrescriptionCapturedEvent {
	return &PrescriptionCapturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			"prescription.captured",
			"Prescription",
			p.ID,
			p.GetPharmacyID(),
		),
		CustomerID:     p.CustomerID.String(),
		PrescriberName: p.PrescriberName,
		LineCount:      len(p.Lines),
	}
}
