package delivery

import (
	"time"

	"github.com/asspharma/backend/internal/domain/delivery"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AnnounceLine is one expected product on an announced delivery
type AnnounceLine struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// AnnounceDeliveryRequest registers a delivery announced by a supplier
type AnnounceDeliveryRequest struct {
	SupplierID  uuid.UUID      `json:"supplier_id" binding:"required"`
	SlipNumber  string         `json:"slip_number" binding:"required,max=100"`
	OrderNumber string         `json:"order_number" binding:"max=100"`
	Carrier     string         `json:"carrier" binding:"max=150"`
	Courier     string         `json:"courier" binding:"max=150"`
	Lines       []AnnounceLine `json:"lines" binding:"required,min=1,dive"`
}

// CheckLineRequest records the counted quantity and lot details for a line
type CheckLineRequest struct {
	LineID            uuid.UUID  `json:"line_id" binding:"required"`
	DeliveredQuantity int64      `json:"delivered_quantity" binding:"min=0"`
	LotNumber         string     `json:"lot_number" binding:"max=50"`
	ExpiryDate        *time.Time `json:"expiry_date"`
}

// DisputeRequest flags a checked delivery for supplier follow-up
type DisputeRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// LineResponse is one delivery line
type LineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	OrderedQuantity   int64           `json:"ordered_quantity"`
	DeliveredQuantity int64           `json:"delivered_quantity"`
	LotNumber         string          `json:"lot_number,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Status            string          `json:"status,omitempty"`
}

// DeliveryResponse is the API representation of a delivery
type DeliveryResponse struct {
	ID            uuid.UUID      `json:"id"`
	SupplierID    uuid.UUID      `json:"supplier_id"`
	SupplierName  string         `json:"supplier_name,omitempty"`
	SlipNumber    string         `json:"slip_number"`
	OrderNumber   string         `json:"order_number,omitempty"`
	Carrier       string         `json:"carrier,omitempty"`
	Courier       string         `json:"courier,omitempty"`
	Status        string         `json:"status"`
	Discrepancies bool           `json:"discrepancies"`
	ReceivedAt    *time.Time     `json:"received_at,omitempty"`
	ValidatedAt   *time.Time     `json:"validated_at,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Lines         []LineResponse `json:"lines"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ToDeliveryResponse converts a delivery to its API representation
func ToDeliveryResponse(d *delivery.Delivery) *DeliveryResponse {
	lines := make([]LineResponse, 0, len(d.Lines))
	for i := range d.Lines {
		line := &d.Lines[i]
		lines = append(lines, LineResponse{
			ID:                line.ID,
			ProductID:         line.ProductID,
			ProductName:       line.ProductName,
			OrderedQuantity:   line.OrderedQuantity,
			DeliveredQuantity: line.DeliveredQuantity,
			LotNumber:         line.LotNumber,
			ExpiryDate:        line.ExpiryDate,
			UnitPrice:         line.UnitPrice,
			Status:            string(line.Status),
		})
	}
	return &DeliveryResponse{
		ID:            d.ID,
		SupplierID:    d.SupplierID,
		SlipNumber:    d.SlipNumber,
		OrderNumber:   d.OrderNumber,
		Carrier:       d.Carrier,
		Courier:       d.Courier,
		Status:        string(d.Status),
		Discrepancies: d.HasDiscrepancies(),
		ReceivedAt:    d.ReceivedAt,
		ValidatedAt:   d.ValidatedAt,
		Notes:         d.Notes,
		Lines:         lines,
		CreatedAt:     d.CreatedAt,
	}
}
