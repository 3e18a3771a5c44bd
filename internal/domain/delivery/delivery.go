package delivery

import (
	"strings"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status tracks a supplier delivery through the receiving workflow
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReceived  Status = "RECEIVED"
	StatusChecked   Status = "CHECKED"
	StatusValidated Status = "VALIDATED"
	StatusDisputed  Status = "DISPUTED"
)

// LineStatus is the per-line check outcome against the delivery slip
type LineStatus string

const (
	LineConform  LineStatus = "CONFORM"
	LineVariance LineStatus = "VARIANCE"
	LineMissing  LineStatus = "MISSING"
)

// Line is one product on a delivery slip. DeliveredQuantity and the lot
// details are filled during checking, ordered fields come from the order.
type Line struct {
	shared.BaseEntity
	DeliveryID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName       string          `gorm:"size:200;not null"`
	OrderedQuantity   int64           `gorm:"not null"`
	DeliveredQuantity int64           `gorm:"not null;default:0"`
	LotNumber         string          `gorm:"size:50"`
	ExpiryDate        *time.Time      `gorm:""`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status            LineStatus      `gorm:"size:10"`
}

// TableName returns the table name for GORM
func (Line) TableName() string {
	return "delivery_lines"
}

// Delivery is a supplier delivery (bordereau de livraison). Validating it
// is the only way stock enters the pharmacy besides inventory adjustments.
type Delivery struct {
	shared.PharmacyAggregateRoot
	SupplierID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderNumber string     `gorm:"size:100"`
	SlipNumber  string     `gorm:"size:100;not null"`
	Carrier     string     `gorm:"size:150"`
	Courier     string     `gorm:"size:150"`
	Status      Status     `gorm:"size:10;not null;default:'PENDING';index"`
	ReceivedAt  *time.Time `gorm:""`
	CheckedBy   *uuid.UUID `gorm:"type:uuid"`
	ValidatedBy *uuid.UUID `gorm:"type:uuid"`
	ValidatedAt *time.Time `gorm:""`
	Notes       string     `gorm:"size:500"`

	Lines []Line `gorm:"foreignKey:DeliveryID;references:ID"`
}

// TableName returns the table name for GORM
func (Delivery) TableName() string {
	return "deliveries"
}

// LineInput is one expected product on a new delivery
type LineInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// NewDelivery registers an announced supplier delivery
func NewDelivery(pharmacyID, supplierID uuid.UUID, slipNumber, orderNumber string, lines []LineInput) (*Delivery, error) {
	slipNumber = strings.TrimSpace(slipNumber)
	if slipNumber == "" {
		return nil, shared.NewDomainError("INVALID_SLIP", "Delivery slip number is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Delivery requires a supplier")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DELIVERY", "Delivery requires at least one line")
	}

	d := &Delivery{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		SupplierID:            supplierID,
		SlipNumber:            slipNumber,
		OrderNumber:           strings.TrimSpace(orderNumber),
		Status:                StatusPending,
		Lines:                 make([]Line, 0, len(lines)),
	}

	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Delivery line requires a product")
		}
		if in.Quantity <= 0 {
			return nil, shared.ErrInvalidQuantity
		}
		d.Lines = append(d.Lines, Line{
			BaseEntity:      shared.NewBaseEntity(),
			DeliveryID:      d.ID,
			ProductID:       in.ProductID,
			ProductName:     in.ProductName,
			OrderedQuantity: in.Quantity,
			UnitPrice:       in.UnitPrice,
		})
	}

	return d, nil
}

// MarkReceived records physical arrival of the parcels
func (d *Delivery) MarkReceived(at time.Time) error {
	if d.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only a pending delivery can be received")
	}
	d.Status = StatusReceived
	d.ReceivedAt = &at
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// CheckLine records the counted quantity and lot details for a line and
// derives its status against the ordered quantity
func (d *Delivery) CheckLine(lineID uuid.UUID, delivered int64, lotNumber string, expiry *time.Time) error {
	if d.Status != StatusReceived && d.Status != StatusChecked {
		return shared.NewDomainError("INVALID_STATE", "Delivery must be received before checking")
	}
	if delivered < 0 {
		return shared.ErrInvalidQuantity
	}

	var line *Line
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			line = &d.Lines[i]
			break
		}
	}
	if line == nil {
		return shared.ErrNotFound
	}

	line.DeliveredQuantity = delivered
	line.LotNumber = strings.TrimSpace(lotNumber)
	line.ExpiryDate = expiry
	switch {
	case delivered == 0:
		line.Status = LineMissing
	case delivered == line.OrderedQuantity:
		line.Status = LineConform
	default:
		line.Status = LineVariance
	}

	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// FinishCheck closes the counting phase once every line has been checked
func (d *Delivery) FinishCheck(checker uuid.UUID) error {
	if d.Status != StatusReceived {
		return shared.NewDomainError("INVALID_STATE", "Only a received delivery can finish checking")
	}
	for i := range d.Lines {
		if d.Lines[i].Status == "" {
			return shared.NewDomainError("UNCHECKED_LINES", "Every line must be checked first")
		}
	}
	d.Status = StatusChecked
	d.CheckedBy = &checker
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// HasDiscrepancies reports whether any line deviates from the slip
func (d *Delivery) HasDiscrepancies() bool {
	for i := range d.Lines {
		if d.Lines[i].Status == LineVariance || d.Lines[i].Status == LineMissing {
			return true
		}
	}
	return false
}

// Dispute flags a checked delivery for supplier follow-up. Disputed
// deliveries can still be validated for what was actually delivered.
func (d *Delivery) Dispute(reason string) error {
	if d.Status != StatusChecked {
		return shared.NewDomainError("INVALID_STATE", "Only a checked delivery can be disputed")
	}
	if !d.HasDiscrepancies() {
		return shared.NewDomainError("INVALID_STATE", "Nothing to dispute on a conform delivery")
	}
	d.Status = StatusDisputed
	d.Notes = strings.TrimSpace(reason)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// ReceivedLine is a line that actually delivered stock, ready to become
// a lot entry
type ReceivedLine struct {
	ProductID  uuid.UUID
	LotNumber  string
	Quantity   int64
	ExpiryDate *time.Time
	UnitPrice  decimal.Decimal
}

// Validate finalizes the delivery and returns the lines that delivered
// stock. The caller turns them into stock lots and purchase movements in
// the same transaction. Lines need a lot number and expiry before stock
// can be created from them.
func (d *Delivery) Validate(validator uuid.UUID, at time.Time) ([]ReceivedLine, error) {
	if d.Status != StatusChecked && d.Status != StatusDisputed {
		return nil, shared.NewDomainError("INVALID_STATE", "Only a checked delivery can be validated")
	}

	received := make([]ReceivedLine, 0, len(d.Lines))
	for i := range d.Lines {
		line := &d.Lines[i]
		if line.DeliveredQuantity == 0 {
			continue
		}
		if line.LotNumber == "" || line.ExpiryDate == nil {
			return nil, shared.NewDomainError("MISSING_LOT_DETAILS", "Delivered lines need a lot number and expiry date")
		}
		received = append(received, ReceivedLine{
			ProductID:  line.ProductID,
			LotNumber:  line.LotNumber,
			Quantity:   line.DeliveredQuantity,
			ExpiryDate: line.ExpiryDate,
			UnitPrice:  line.UnitPrice,
		})
	}

	d.Status = StatusValidated
	d.ValidatedBy = &validator
	d.ValidatedAt = &at
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDeliveryValidatedEvent(d, len(received)))

	return received, nil
}
