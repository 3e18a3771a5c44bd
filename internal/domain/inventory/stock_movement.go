package inventory

import (
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementDirection is the sign of a stock movement
type MovementDirection string

const (
	MovementInward  MovementDirection = "INWARD"
	MovementOutward MovementDirection = "OUTWARD"
)

// IsValid checks if the direction is valid
func (d MovementDirection) IsValid() bool {
	return d == MovementInward || d == MovementOutward
}

// MovementReason explains why stock moved
type MovementReason string

const (
	ReasonPurchase    MovementReason = "PURCHASE"
	ReasonSale        MovementReason = "SALE"
	ReasonDestruction MovementReason = "DESTRUCTION"
	ReasonReturn      MovementReason = "RETURN"
	ReasonAdjustment  MovementReason = "INVENTORY_ADJUSTMENT"
	ReasonExpiry      MovementReason = "EXPIRY"
)

// IsValid checks if the reason is valid
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonDestruction, ReasonReturn, ReasonAdjustment, ReasonExpiry:
		return true
	}
	return false
}

// String returns the string representation of MovementReason
func (r MovementReason) String() string {
	return string(r)
}

// StockMovement is one immutable line of the stock audit ledger. Once
// committed it is never mutated or deleted; corrections are new compensating
// movements. QuantityBefore/QuantityAfter are captured from the lot at commit
// time so the chain for a lot reconstructs its full quantity history.
type StockMovement struct {
	shared.BaseEntity
	PharmacyID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	LotID          *uuid.UUID        `gorm:"type:uuid;index"`
	Direction      MovementDirection `gorm:"size:10;not null"`
	Reason         MovementReason    `gorm:"size:30;not null"`
	Quantity       int64             `gorm:"not null"`
	QuantityBefore int64             `gorm:"not null"`
	QuantityAfter  int64             `gorm:"not null"`
	Actor          uuid.UUID         `gorm:"type:uuid;not null"`
	Comment        string            `gorm:"size:500"`
	UnitPrice      *decimal.Decimal  `gorm:"type:decimal(18,2)"`
	RecordedAt     time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement record. The before/after quantities
// must be consistent with the direction; this is the ledger's conservation
// invariant and is checked here rather than trusted from the caller.
func NewStockMovement(
	pharmacyID, productID, lotID uuid.UUID,
	direction MovementDirection,
	reason MovementReason,
	quantity, before, after int64,
	actor uuid.UUID,
	comment string,
	unitPrice *decimal.Decimal,
) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Movement direction is not valid")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Movement reason is not valid")
	}
	if actor == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Movement actor is required")
	}

	switch direction {
	case MovementInward:
		if after != before+quantity {
			return nil, shared.NewDomainError("INCONSISTENT_MOVEMENT", "Quantity after must equal quantity before plus quantity")
		}
	case MovementOutward:
		if after != before-quantity {
			return nil, shared.NewDomainError("INCONSISTENT_MOVEMENT", "Quantity after must equal quantity before minus quantity")
		}
		if after < 0 {
			return nil, shared.ErrInsufficientStock
		}
	}

	m := &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		PharmacyID:     pharmacyID,
		ProductID:      productID,
		Direction:      direction,
		Reason:         reason,
		Quantity:       quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		Actor:          actor,
		Comment:        comment,
		UnitPrice:      unitPrice,
		RecordedAt:     time.Now(),
	}
	if lotID != uuid.Nil {
		m.LotID = &lotID
	}

	return m, nil
}

// IsOutward returns true for outward movements
func (m *StockMovement) IsOutward() bool {
	return m.Direction == MovementOutward
}

// SignedQuantity returns the quantity with the direction's sign applied
func (m *StockMovement) SignedQuantity() int64 {
	if m.Direction == MovementOutward {
		return -m.Quantity
	}
	return m.Quantity
}
