package catalog

import (
	"github.com/asspharma/backend/internal/domain/shared"
)

// Event types for the catalog context
const (
	EventTypeProductCreated       = "catalog.product.created"
	EventTypeProductStatusChanged = "catalog.product.status_changed"
)

// ProductCreatedEvent is emitted when a product is registered in the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	CommercialName string       `json:"commercial_name"`
	DCI            string       `json:"dci"`
	SaleCategory   SaleCategory `json:"sale_category"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID, p.PharmacyID),
		CommercialName:  p.CommercialName,
		DCI:             p.DCI,
		SaleCategory:    p.SaleCategory,
	}
}

// ProductStatusChangedEvent is emitted on any lifecycle transition
// (active, expired, recalled, out-of-stock)
type ProductStatusChangedEvent struct {
	shared.BaseDomainEvent
	PreviousStatus ProductStatus `json:"previous_status"`
	NewStatus      ProductStatus `json:"new_status"`
}

// NewProductStatusChangedEvent creates a ProductStatusChangedEvent
func NewProductStatusChangedEvent(p *Product, previous ProductStatus) *ProductStatusChangedEvent {
	return &ProductStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStatusChanged, "Product", p.ID, p.PharmacyID),
		PreviousStatus:  previous,
		NewStatus:       p.Status,
	}
}
