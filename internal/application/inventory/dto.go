package inventory

import (
	"time"

	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLotRequest registers a new stock lot with its initial quantity
type CreateLotRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	LotNumber     string          `json:"lot_number" binding:"required"`
	Quantity      int64           `json:"quantity" binding:"required,min=1"`
	ExpiryDate    time.Time       `json:"expiry_date" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Supplier      string          `json:"supplier"`
	Reason        string          `json:"reason"` // defaults to PURCHASE
	Comment       string          `json:"comment"`
}

// RecordMovementRequest records a stock entry or exit on a lot
type RecordMovementRequest struct {
	LotID     uuid.UUID        `json:"lot_id" binding:"required"`
	Direction string           `json:"direction" binding:"required,oneof=INWARD OUTWARD"`
	Reason    string           `json:"reason" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required,min=1"`
	Comment   string           `json:"comment"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// LotResponse represents a stock lot in API responses. Status carries the
// read-time effective status, not the stored one.
type LotResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	LotNumber       string          `json:"lot_number"`
	Quantity        int64           `json:"quantity"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	EntryDate       time.Time       `json:"entry_date"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	Supplier        string          `json:"supplier"`
	Status          string          `json:"status"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
	Version         int             `json:"version"`
}

// MovementResponse represents one ledger line in API responses
type MovementResponse struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	LotID          *uuid.UUID       `json:"lot_id,omitempty"`
	Direction      string           `json:"direction"`
	Reason         string           `json:"reason"`
	Quantity       int64            `json:"quantity"`
	QuantityBefore int64            `json:"quantity_before"`
	QuantityAfter  int64            `json:"quantity_after"`
	Actor          uuid.UUID        `json:"actor"`
	Comment        string           `json:"comment,omitempty"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	RecordedAt     time.Time        `json:"recorded_at"`
}

// StockLevelResponse is the summed allocatable quantity for a product
type StockLevelResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	TotalQuantity int64     `json:"total_quantity"`
	LotCount      int       `json:"lot_count"`
}

// AllocationPreviewResponse shows how a requested quantity would be served
type AllocationPreviewResponse struct {
	ProductID uuid.UUID                `json:"product_id"`
	Requested int64                    `json:"requested"`
	Lines     []AllocationLineResponse `json:"lines"`
}

// AllocationLineResponse is one lot draw of an allocation plan
type AllocationLineResponse struct {
	LotID     uuid.UUID `json:"lot_id"`
	LotNumber string    `json:"lot_number"`
	Quantity  int64     `json:"quantity"`
}

// ToLotResponse converts a stock lot to its response form at a point in time
func ToLotResponse(lot *inventory.StockLot, now time.Time) LotResponse {
	return LotResponse{
		ID:              lot.ID,
		ProductID:       lot.ProductID,
		LotNumber:       lot.LotNumber,
		Quantity:        lot.Quantity,
		ExpiryDate:      lot.ExpiryDate,
		EntryDate:       lot.EntryDate,
		PurchasePrice:   lot.PurchasePrice,
		Supplier:        lot.Supplier,
		Status:          lot.EffectiveStatus(now).String(),
		DaysUntilExpiry: lot.DaysUntilExpiry(now),
		Version:         lot.GetVersion(),
	}
}

// ToMovementResponse converts a movement to its response form
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		LotID:          m.LotID,
		Direction:      string(m.Direction),
		Reason:         string(m.Reason),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Actor:          m.Actor,
		Comment:        m.Comment,
		UnitPrice:      m.UnitPrice,
		RecordedAt:     m.RecordedAt,
	}
}
