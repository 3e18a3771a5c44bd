package prescription

import (
	"time"

	"github.com/asspharma/backend/internal/domain/prescription"
	"github.com/google/uuid"
)

// CaptureLine is one prescribed medication on a capture request
type CaptureLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Posology  string    `json:"posology" binding:"max=300"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CapturePrescriptionRequest captures an ordonnance brought by a customer
type CapturePrescriptionRequest struct {
	CustomerID     uuid.UUID     `json:"customer_id" binding:"required"`
	PrescriberName string        `json:"prescriber_name" binding:"required,max=150"`
	PrescriberID   string        `json:"prescriber_id" binding:"max=50"`
	IssuedAt       time.Time     `json:"issued_at" binding:"required"`
	ValidityDays   int           `json:"validity_days" binding:"min=0"`
	Notes          string        `json:"notes" binding:"max=500"`
	Lines          []CaptureLine `json:"lines" binding:"required,min=1,dive"`
}

// DispenseRequest records quantities handed to the patient against a line
type DispenseRequest struct {
	LineID   uuid.UUID `json:"line_id" binding:"required"`
	Quantity int64     `json:"quantity" binding:"required,min=1"`
}

// LineResponse is one prescription line
type LineResponse struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"product_id"`
	ProductName        string    `json:"product_name"`
	Posology           string    `json:"posology,omitempty"`
	PrescribedQuantity int64     `json:"prescribed_quantity"`
	DispensedQuantity  int64     `json:"dispensed_quantity"`
	Remaining          int64     `json:"remaining"`
}

// PrescriptionResponse is the API representation of a prescription
type PrescriptionResponse struct {
	ID             uuid.UUID      `json:"id"`
	CustomerID     uuid.UUID      `json:"customer_id"`
	PrescriberName string         `json:"prescriber_name"`
	PrescriberID   string         `json:"prescriber_id,omitempty"`
	IssuedAt       time.Time      `json:"issued_at"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
	Expired        bool           `json:"expired"`
	HasScan        bool           `json:"has_scan"`
	Status         string         `json:"status"`
	Notes          string         `json:"notes,omitempty"`
	Lines          []LineResponse `json:"lines"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ToPrescriptionResponse converts a prescription to its API representation
func ToPrescriptionResponse(p *prescription.Prescription, now time.Time) *PrescriptionResponse {
	lines := make([]LineResponse, 0, len(p.Lines))
	for i := range p.Lines {
		line := &p.Lines[i]
		lines = append(lines, LineResponse{
			ID:                 line.ID,
			ProductID:          line.ProductID,
			ProductName:        line.ProductName,
			Posology:           line.Posology,
			PrescribedQuantity: line.PrescribedQuantity,
			DispensedQuantity:  line.DispensedQuantity,
			Remaining:          line.Remaining(),
		})
	}
	return &PrescriptionResponse{
		ID:             p.ID,
		CustomerID:     p.CustomerID,
		PrescriberName: p.PrescriberName,
		PrescriberID:   p.PrescriberID,
		IssuedAt:       p.IssuedAt,
		ExpiresAt:      p.ExpiresAt,
		Expired:        p.IsExpired(now),
		HasScan:        p.ScanKey != "",
		Status:         string(p.Status),
		Notes:          p.Notes,
		Lines:          lines,
		CreatedAt:      p.CreatedAt,
	}
}
