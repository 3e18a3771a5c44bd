package catalog

import (
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "ACTIVE"
	ProductStatusExpired    ProductStatus = "EXPIRED"
	ProductStatusRecalled   ProductStatus = "RECALLED"
	ProductStatusOutOfStock ProductStatus = "OUT_OF_STOCK"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusExpired, ProductStatusRecalled, ProductStatusOutOfStock:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// SaleCategory controls whether a product may be sold over the counter or
// only against a validated prescription.
type SaleCategory string

const (
	SaleCategoryOverTheCounter       SaleCategory = "OVER_THE_COUNTER"
	SaleCategoryPrescriptionRequired SaleCategory = "PRESCRIPTION_REQUIRED"
)

// IsValid checks if the sale category is valid
func (c SaleCategory) IsValid() bool {
	return c == SaleCategoryOverTheCounter || c == SaleCategoryPrescriptionRequired
}

// Product is the catalog aggregate root. A product describes one reference
// in the pharmacy's catalog; physical stock is tracked per lot in the
// inventory context. A product that has stock movements is never physically
// deleted - its status changes instead.
type Product struct {
	shared.PharmacyAggregateRoot
	CommercialName string          `gorm:"not null;size:200"`
	DCI            string          `gorm:"size:200;index"` // active ingredient (denomination commune internationale)
	Dosage         string          `gorm:"size:50"`
	Form           string          `gorm:"size:50"` // tablet, syrup, injectable, ...
	Manufacturer   string          `gorm:"size:200"`
	Shelf          string          `gorm:"size:50"` // rayon
	ShelfLevel     int             `gorm:""`
	Barcode        string          `gorm:"size:64;index"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MinStock       int64           `gorm:"not null;default:0"` // minimum-stock threshold for alerts
	SaleCategory   SaleCategory    `gorm:"size:32;not null;default:'OVER_THE_COUNTER'"`
	Status         ProductStatus   `gorm:"size:20;not null;default:'ACTIVE'"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProductParams groups the fields required to register a product
type NewProductParams struct {
	CommercialName string
	DCI            string
	Dosage         string
	Form           string
	Manufacturer   string
	Shelf          string
	ShelfLevel     int
	Barcode        string
	UnitPrice      valueobject.Money
	MinStock       int64
	SaleCategory   SaleCategory
}

// NewProduct registers a new product in the pharmacy catalog
func NewProduct(pharmacyID uuid.UUID, p NewProductParams) (*Product, error) {
	if p.CommercialName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Commercial name cannot be empty")
	}
	if p.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if p.MinStock < 0 {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Minimum stock threshold cannot be negative")
	}
	category := p.SaleCategory
	if category == "" {
		category = SaleCategoryOverTheCounter
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_SALE_CATEGORY", "Sale category is not valid")
	}

	product := &Product{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		CommercialName:        p.CommercialName,
		DCI:                   p.DCI,
		Dosage:                p.Dosage,
		Form:                  p.Form,
		Manufacturer:          p.Manufacturer,
		Shelf:                 p.Shelf,
		ShelfLevel:            p.ShelfLevel,
		Barcode:               p.Barcode,
		UnitPrice:             p.UnitPrice.Amount(),
		MinStock:              p.MinStock,
		SaleCategory:          category,
		Status:                ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// ChangeStatus transitions the product to a new lifecycle status.
// This is the only mutation allowed once a product has movements.
func (p *Product) ChangeStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Product status is not valid")
	}
	if p.Status == status {
		return nil
	}

	previous := p.Status
	p.Status = status
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, previous))

	return nil
}

// UpdatePrice changes the unit sale price
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	p.UnitPrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetMinStock sets the minimum-stock threshold used by the alert deriver
func (p *Product) SetMinStock(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Minimum stock threshold cannot be negative")
	}

	p.MinStock = threshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Relocate updates the shelf location
func (p *Product) Relocate(shelf string, level int) {
	p.Shelf = shelf
	p.ShelfLevel = level
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// RequiresPrescription returns true for regulated products
func (p *Product) RequiresPrescription() bool {
	return p.SaleCategory == SaleCategoryPrescriptionRequired
}

// IsSellable returns true if the product may appear in a sale
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusActive
}

// GetUnitPriceMoney returns the unit price as a Money value object
func (p *Product) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyXOF(p.UnitPrice)
}
