package catalog

import (
	"time"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest registers a new catalog reference
type CreateProductRequest struct {
	CommercialName string          `json:"commercial_name" binding:"required,max=200"`
	DCI            string          `json:"dci" binding:"max=200"`
	Dosage         string          `json:"dosage" binding:"max=50"`
	Form           string          `json:"form" binding:"max=50"`
	Manufacturer   string          `json:"manufacturer" binding:"max=200"`
	Shelf          string          `json:"shelf" binding:"max=50"`
	ShelfLevel     int             `json:"shelf_level" binding:"min=0"`
	Barcode        string          `json:"barcode" binding:"max=64"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	MinStock       int64           `json:"min_stock" binding:"min=0"`
	SaleCategory   string          `json:"sale_category" binding:"omitempty,oneof=OVER_THE_COUNTER PRESCRIPTION_REQUIRED"`
}

// UpdatePriceRequest changes the unit sale price
type UpdatePriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// RelocateRequest moves a product to another shelf
type RelocateRequest struct {
	Shelf      string `json:"shelf" binding:"required,max=50"`
	ShelfLevel int    `json:"shelf_level" binding:"min=0"`
}

// SetMinStockRequest adjusts the minimum-stock alert threshold
type SetMinStockRequest struct {
	MinStock int64 `json:"min_stock" binding:"min=0"`
}

// ChangeStatusRequest transitions the product lifecycle status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE EXPIRED RECALLED OUT_OF_STOCK"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	CommercialName string          `json:"commercial_name"`
	DCI            string          `json:"dci,omitempty"`
	Dosage         string          `json:"dosage,omitempty"`
	Form           string          `json:"form,omitempty"`
	Manufacturer   string          `json:"manufacturer,omitempty"`
	Shelf          string          `json:"shelf,omitempty"`
	ShelfLevel     int             `json:"shelf_level,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	MinStock       int64           `json:"min_stock"`
	SaleCategory   string          `json:"sale_category"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		CommercialName: p.CommercialName,
		DCI:            p.DCI,
		Dosage:         p.Dosage,
		Form:           p.Form,
		Manufacturer:   p.Manufacturer,
		Shelf:          p.Shelf,
		ShelfLevel:     p.ShelfLevel,
		Barcode:        p.Barcode,
		UnitPrice:      p.UnitPrice,
		MinStock:       p.MinStock,
		SaleCategory:   string(p.SaleCategory),
		Status:         p.Status.String(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
