package prescription

import (
	"strings"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status tracks a prescription's dispensing progress. It is derived from
// the line quantities whenever a line is dispensed.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPartial   Status = "PARTIALLY_DISPENSED"
	StatusDispensed Status = "DISPENSED"
	StatusCancelled Status = "CANCELLED"
)

// Line is one prescribed medication. DispensedQuantity never exceeds
// PrescribedQuantity.
type Line struct {
	shared.BaseEntity
	PrescriptionID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null"`
	ProductName        string    `gorm:"size:200;not null"` // snapshot at capture time
	Posology           string    `gorm:"size:300"`
	PrescribedQuantity int64     `gorm:"not null"`
	DispensedQuantity  int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "prescription_lines"
}

// Remaining returns the quantity still to dispense
func (l *Line) Remaining() int64 {
	return l.PrescribedQuantity - l.DispensedQuantity
}

// Prescription is a captured ordonnance. The scanned original is stored
// separately; ScanKey points at it in object storage.
type Prescription struct {
	shared.PharmacyAggregateRoot
	CustomerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PrescriberName string     `gorm:"size:150;not null"`
	PrescriberID   string     `gorm:"size:50"` // numero d'ordre when captured
	IssuedAt       time.Time  `gorm:"not null"`
	ExpiresAt      *time.Time `gorm:""`
	ScanKey        string     `gorm:"size:300"`
	Status         Status     `gorm:"size:20;not null;default:'PENDING';index"`
	Notes          string     `gorm:"size:500"`

	Lines []Line `gorm:"foreignKey:PrescriptionID;references:ID"`
}

// TableName returns the table name for GORM
func (Prescription) TableName() string {
	return "prescriptions"
}

// LineInput is one medication to capture on a prescription
type LineInput struct {
	ProductID   uuid.UUID
	ProductName string
	Posology    string
	Quantity    int64
}

// NewPrescription captures an ordonnance with its lines
func NewPrescription(pharmacyID, customerID uuid.UUID, prescriberName string, issuedAt time.Time, lines []LineInput) (*Prescription, error) {
	prescriberName = strings.TrimSpace(prescriberName)
	if prescriberName == "" {
		return nil, shared.NewDomainError("INVALID_PRESCRIBER", "Prescriber name is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Prescription requires a customer")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_PRESCRIPTION", "Prescription requires at least one line")
	}

	p := &Prescription{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		CustomerID:            customerID,
		PrescriberName:        prescriberName,
		IssuedAt:              issuedAt,
		Status:                StatusPending,
		Lines:                 make([]Line, 0, len(lines)),
	}

	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Prescription line requires a product")
		}
		if in.Quantity <= 0 {
			return nil, shared.ErrInvalidQuantity
		}
		p.Lines = append(p.Lines, Line{
			BaseEntity:         shared.NewBaseEntity(),
			PrescriptionID:     p.ID,
			ProductID:          in.ProductID,
			ProductName:        in.ProductName,
			Posology:           in.Posology,
			PrescribedQuantity: in.Quantity,
		})
	}

	p.AddDomainEvent(NewPrescriptionCapturedEvent(p))

	return p, nil
}

// AttachScan records the object storage key of the scanned original
func (p *Prescription) AttachScan(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return shared.NewDomainError("INVALID_SCAN_KEY", "Scan key cannot be empty")
	}
	p.ScanKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Dispense records quantities handed to the patient against a line and
// re-derives the prescription status. Partial dispensing is allowed;
// exceeding the prescribed quantity is not.
func (p *Prescription) Dispense(lineID uuid.UUID, quantity int64) error {
	if p.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled prescription cannot be dispensed")
	}
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}

	var line *Line
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			line = &p.Lines[i]
			break
		}
	}
	if line == nil {
		return shared.ErrNotFound
	}
	if quantity > line.Remaining() {
		return shared.NewDomainError("OVERDISPENSE_REJECTED", "Quantity exceeds what the prescription allows")
	}

	line.DispensedQuantity += quantity
	p.Status = p.deriveStatus()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// DispenseProduct records dispensing against the line covering the given
// product. Checkout references the prescription by product, not by line:
// the first covering line with enough remaining quantity is drawn, falling
// back to a short line so the overdispense rejection surfaces.
func (p *Prescription) DispenseProduct(productID uuid.UUID, quantity int64) error {
	var line *Line
	for i := range p.Lines {
		if p.Lines[i].ProductID != productID {
			continue
		}
		line = &p.Lines[i]
		if line.Remaining() >= quantity {
			break
		}
	}
	if line == nil {
		return shared.NewDomainError("PRESCRIPTION_MISMATCH", "Prescription does not cover this product")
	}
	return p.Dispense(line.ID, quantity)
}

// Cancel withdraws a prescription that will not be served
func (p *Prescription) Cancel() error {
	if p.Status == StatusDispensed {
		return shared.NewDomainError("INVALID_STATE", "Fully dispensed prescription cannot be cancelled")
	}
	p.Status = StatusCancelled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsExpired reports whether the prescription validity has lapsed
func (p *Prescription) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

func (p *Prescription) deriveStatus() Status {
	anyDispensed := false
	allDispensed := true
	for i := range p.Lines {
		if p.Lines[i].DispensedQuantity > 0 {
			anyDispensed = true
		}
		if p.Lines[i].Remaining() > 0 {
			allDispensed = false
		}
	}
	switch {
	case allDispensed:
		return StatusDispensed
	case anyDispensed:
		return StatusPartial
	default:
		return StatusPending
	}
}
