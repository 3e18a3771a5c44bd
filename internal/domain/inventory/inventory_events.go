package inventory

import (
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the inventory context
const (
	EventTypeStockLotCreated       = "inventory.lot.created"
	EventTypeStockLotDestroyed     = "inventory.lot.destroyed"
	EventTypeStockMovementRecorded = "inventory.movement.recorded"
	EventTypeStockBelowThreshold   = "inventory.stock.below_threshold"
)

// StockLotCreatedEvent is emitted at goods receipt
type StockLotCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	LotNumber  string    `json:"lot_number"`
	ExpiryDate time.Time `json:"expiry_date"`
	Supplier   string    `json:"supplier"`
}

// NewStockLotCreatedEvent creates a StockLotCreatedEvent
func NewStockLotCreatedEvent(lot *StockLot) *StockLotCreatedEvent {
	return &StockLotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLotCreated, "StockLot", lot.ID, lot.PharmacyID),
		ProductID:       lot.ProductID,
		LotNumber:       lot.LotNumber,
		ExpiryDate:      lot.ExpiryDate,
		Supplier:        lot.Supplier,
	}
}

// StockLotDestroyedEvent is emitted when a lot is explicitly destroyed
type StockLotDestroyedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	LotNumber string    `json:"lot_number"`
}

// NewStockLotDestroyedEvent creates a StockLotDestroyedEvent
func NewStockLotDestroyedEvent(lot *StockLot) *StockLotDestroyedEvent {
	return &StockLotDestroyedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLotDestroyed, "StockLot", lot.ID, lot.PharmacyID),
		ProductID:       lot.ProductID,
		LotNumber:       lot.LotNumber,
	}
}

// StockMovementRecordedEvent is emitted for every committed movement
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID         `json:"movement_id"`
	ProductID  uuid.UUID         `json:"product_id"`
	Direction  MovementDirection `json:"direction"`
	Reason     MovementReason    `json:"reason"`
	Quantity   int64             `json:"quantity"`
	After      int64             `json:"quantity_after"`
}

// NewStockMovementRecordedEvent creates a StockMovementRecordedEvent
func NewStockMovementRecordedEvent(lot *StockLot, m *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, "StockLot", lot.ID, lot.PharmacyID),
		MovementID:      m.ID,
		ProductID:       m.ProductID,
		Direction:       m.Direction,
		Reason:          m.Reason,
		Quantity:        m.Quantity,
		After:           m.QuantityAfter,
	}
}

// StockBelowThresholdEvent is emitted by the application layer when a sale
// drives a product's total under its minimum threshold. Consumed by the
// notification system outside this core.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID `json:"product_id"`
	TotalQuantity int64     `json:"total_quantity"`
	Threshold     int64     `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a StockBelowThresholdEvent
func NewStockBelowThresholdEvent(pharmacyID, productID uuid.UUID, total, threshold int64) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "Product", productID, pharmacyID),
		ProductID:       productID,
		TotalQuantity:   total,
		Threshold:       threshold,
	}
}
