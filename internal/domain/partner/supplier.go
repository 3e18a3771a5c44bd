package partner

import (
	"strings"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplierStatus represents the supplier account state
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "ACTIVE"
	SupplierInactive SupplierStatus = "INACTIVE"
)

// Supplier is a wholesaler or laboratory the pharmacy orders from
type Supplier struct {
	shared.PharmacyAggregateRoot
	Name        string         `gorm:"size:150;not null;index"`
	ContactName string         `gorm:"size:150"`
	Phone       string         `gorm:"size:30"`
	Email       string         `gorm:"size:150"`
	Address     string         `gorm:"size:300"`
	Status      SupplierStatus `gorm:"size:10;not null;default:'ACTIVE'"`
	Notes       string         `gorm:"size:500"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a supplier
func NewSupplier(pharmacyID uuid.UUID, name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name is required")
	}

	return &Supplier{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		Name:                  name,
		Status:                SupplierActive,
	}, nil
}

// UpdateContact updates the contact details
func (s *Supplier) UpdateContact(contactName, phone, email, address string) {
	s.ContactName = strings.TrimSpace(contactName)
	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.TrimSpace(email)
	s.Address = strings.TrimSpace(address)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() {
	s.Status = SupplierInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsActive reports whether new deliveries may reference the supplier
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierActive
}
