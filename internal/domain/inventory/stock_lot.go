package inventory

import (
	"math"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotStatus represents the stored lifecycle status of a stock lot
type LotStatus string

const (
	LotStatusActive    LotStatus = "ACTIVE"
	LotStatusExpired   LotStatus = "EXPIRED"
	LotStatusDestroyed LotStatus = "DESTROYED"
)

// IsValid checks if the status is a valid LotStatus
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusActive, LotStatusExpired, LotStatusDestroyed:
		return true
	}
	return false
}

// String returns the string representation of LotStatus
func (s LotStatus) String() string {
	return string(s)
}

// StockLot is the aggregate root for one received batch of a product.
// Quantity on hand never goes negative; every quantity change goes through
// Apply, which produces the corresponding immutable StockMovement. Lots are
// historical records and are never deleted - destruction is an explicit
// movement that zeroes the quantity and marks the lot DESTROYED.
//
// Expiry is evaluated at read time: EffectiveStatus reports EXPIRED for a
// lot whose expiry date has passed even when the stored status still says
// ACTIVE. No background job flips statuses.
type StockLot struct {
	shared.PharmacyAggregateRoot
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_lot_product_number,priority:2"`
	LotNumber     string          `gorm:"size:100;not null;uniqueIndex:idx_stock_lot_product_number,priority:3"`
	Quantity      int64           `gorm:"not null;default:0;check:quantity >= 0"`
	ExpiryDate    time.Time       `gorm:"not null;index"`
	EntryDate     time.Time       `gorm:"not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Supplier      string          `gorm:"size:200"`
	Status        LotStatus       `gorm:"size:20;not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot creates a lot at goods receipt. The initial quantity is
// recorded by the caller as an inward movement via Apply.
func NewStockLot(pharmacyID, productID uuid.UUID, lotNumber string, expiry time.Time, purchasePrice valueobject.Money, supplier string) (*StockLot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if lotNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOT_NUMBER", "Lot number cannot be empty")
	}
	if expiry.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date is required")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	lot := &StockLot{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		ProductID:             productID,
		LotNumber:             lotNumber,
		Quantity:              0,
		ExpiryDate:            expiry,
		EntryDate:             time.Now(),
		PurchasePrice:         purchasePrice.Amount(),
		Supplier:              supplier,
		Status:                LotStatusActive,
	}

	lot.AddDomainEvent(NewStockLotCreatedEvent(lot))

	return lot, nil
}

// IsExpired returns true if the expiry date has passed at the given instant
func (l *StockLot) IsExpired(now time.Time) bool {
	return l.ExpiryDate.Before(now)
}

// DaysUntilExpiry returns the number of days until expiry at the given
// instant, rounded up: a lot expiring later today reports 1, not 0, so a
// not-yet-expired lot never reads as expired. Values at or below zero
// mean the lot has already expired.
func (l *StockLot) DaysUntilExpiry(now time.Time) int {
	return int(math.Ceil(l.ExpiryDate.Sub(now).Hours() / 24))
}

// EffectiveStatus reports the logical status at the given instant. A stored
// ACTIVE lot whose expiry has passed reads as EXPIRED; DESTROYED is sticky.
func (l *StockLot) EffectiveStatus(now time.Time) LotStatus {
	if l.Status == LotStatusDestroyed {
		return LotStatusDestroyed
	}
	if l.IsExpired(now) {
		return LotStatusExpired
	}
	return l.Status
}

// IsAllocatable returns true if the lot can supply a sale at the given
// instant: stock on hand, not destroyed, not expired.
func (l *StockLot) IsAllocatable(now time.Time) bool {
	return l.Quantity > 0 && l.EffectiveStatus(now) == LotStatusActive
}

// Apply records a quantity change on the lot and returns the resulting
// movement with quantity-before/after captured at this point. Fails with
// INVALID_QUANTITY for non-positive quantities and INSUFFICIENT_STOCK when
// an outward movement exceeds the quantity on hand.
func (l *StockLot) Apply(direction MovementDirection, reason MovementReason, quantity int64, actor uuid.UUID, comment string, unitPrice *decimal.Decimal) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Movement direction is not valid")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Movement reason is not valid")
	}
	if l.Status == LotStatusDestroyed {
		return nil, shared.NewDomainError("LOT_DESTROYED", "Cannot move stock on a destroyed lot")
	}

	before := l.Quantity
	switch direction {
	case MovementInward:
		l.Quantity = before + quantity
	case MovementOutward:
		if before < quantity {
			return nil, shared.ErrInsufficientStock
		}
		l.Quantity = before - quantity
	}

	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	movement, err := NewStockMovement(l.PharmacyID, l.ProductID, l.ID, direction, reason, quantity, before, l.Quantity, actor, comment, unitPrice)
	if err != nil {
		// Roll the in-memory quantity back; the aggregate was never persisted
		l.Quantity = before
		return nil, err
	}

	l.AddDomainEvent(NewStockMovementRecordedEvent(l, movement))

	return movement, nil
}

// Destroy zeroes the remaining quantity through an outward destruction
// movement and marks the lot DESTROYED. This is the only path to the
// DESTROYED status.
func (l *StockLot) Destroy(actor uuid.UUID, comment string) (*StockMovement, error) {
	if l.Status == LotStatusDestroyed {
		return nil, shared.NewDomainError("LOT_DESTROYED", "Lot is already destroyed")
	}

	var movement *StockMovement
	if l.Quantity > 0 {
		var err error
		movement, err = l.Apply(MovementOutward, ReasonDestruction, l.Quantity, actor, comment, nil)
		if err != nil {
			return nil, err
		}
	}

	l.Status = LotStatusDestroyed
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewStockLotDestroyedEvent(l))

	return movement, nil
}

// MarkExpired persists the read-time EXPIRED evaluation, typically when an
// expiry movement is recorded to pull the stock off the shelf.
func (l *StockLot) MarkExpired(now time.Time) error {
	if l.Status == LotStatusDestroyed {
		return shared.NewDomainError("LOT_DESTROYED", "Lot is already destroyed")
	}
	if !l.IsExpired(now) {
		return shared.NewDomainError("NOT_EXPIRED", "Lot has not reached its expiry date")
	}

	l.Status = LotStatusExpired
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// GetPurchasePriceMoney returns the purchase price as a Money value object
func (l *StockLot) GetPurchasePriceMoney() valueobject.Money {
	return valueobject.NewMoneyXOF(l.PurchasePrice)
}
