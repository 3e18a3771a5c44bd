package identity

import (
	"strings"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
)

// PharmacyStatus represents the status of a pharmacy tenant
type PharmacyStatus string

const (
	PharmacyActive    PharmacyStatus = "ACTIVE"
	PharmacySuspended PharmacyStatus = "SUSPENDED"
)

// Pharmacy is the tenant root. Every other aggregate carries its ID and
// every repository query is scoped by it.
type Pharmacy struct {
	shared.BaseAggregateRoot
	Name         string         `gorm:"size:200;not null"`
	LicenseNo    string         `gorm:"size:100;uniqueIndex"` // ordre des pharmaciens registration
	OwnerName    string         `gorm:"size:150"`             // pharmacien titulaire
	Phone        string         `gorm:"size:30"`
	Email        string         `gorm:"size:150"`
	Address      string         `gorm:"size:300"`
	City         string         `gorm:"size:100;default:'Dakar'"`
	Status       PharmacyStatus `gorm:"size:10;not null;default:'ACTIVE'"`
	ActivatedAt  *time.Time     `gorm:""`
	SuspendedAt  *time.Time     `gorm:""`
}

// TableName returns the table name for GORM
func (Pharmacy) TableName() string {
	return "pharmacies"
}

// NewPharmacy registers a pharmacy tenant
func NewPharmacy(name, licenseNo string) (*Pharmacy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Pharmacy name is required")
	}
	licenseNo = strings.TrimSpace(licenseNo)
	if licenseNo == "" {
		return nil, shared.NewDomainError("INVALID_LICENSE", "Pharmacy license number is required")
	}

	now := time.Now()
	return &Pharmacy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		LicenseNo:         licenseNo,
		City:              "Dakar",
		Status:            PharmacyActive,
		ActivatedAt:       &now,
	}, nil
}

// IsActive reports whether the tenant may be used
func (p *Pharmacy) IsActive() bool {
	return p.Status == PharmacyActive
}

// Suspend blocks all access for the tenant
func (p *Pharmacy) Suspend() error {
	if p.Status == PharmacySuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Pharmacy is already suspended")
	}
	now := time.Now()
	p.Status = PharmacySuspended
	p.SuspendedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Reinstate re-enables a suspended tenant
func (p *Pharmacy) Reinstate() error {
	if p.Status == PharmacyActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Pharmacy is already active")
	}
	now := time.Now()
	p.Status = PharmacyActive
	p.ActivatedAt = &now
	p.SuspendedAt = nil
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// UpdateContact updates the pharmacy contact details
func (p *Pharmacy) UpdateContact(ownerName, phone, email, address, city string) {
	p.OwnerName = strings.TrimSpace(ownerName)
	p.Phone = strings.TrimSpace(phone)
	p.Email = strings.TrimSpace(email)
	p.Address = strings.TrimSpace(address)
	if city = strings.TrimSpace(city); city != "" {
		p.City = city
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
