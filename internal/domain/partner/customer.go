package partner

import (
	"strings"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerStatus represents the customer account state
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ACTIVE"
	CustomerInactive CustomerStatus = "INACTIVE"
)

// InsuranceAffiliation links a customer to an insurer scheme. Membership
// number is the number printed on the member card and appears on claims.
type InsuranceAffiliation struct {
	InsurerID        uuid.UUID `gorm:"type:uuid"`
	MembershipNumber string    `gorm:"size:50"`
	Beneficiary      string    `gorm:"size:150"` // when the patient is a dependent
}

// IsAffiliated reports whether the affiliation is set
func (a InsuranceAffiliation) IsAffiliated() bool {
	return a.InsurerID != uuid.Nil
}

// Customer is a registered pharmacy client. Walk-in sales carry no
// customer; credit sales and insured sales require one.
type Customer struct {
	shared.PharmacyAggregateRoot
	FirstName   string               `gorm:"size:100;not null"`
	LastName    string               `gorm:"size:100;not null"`
	Phone       string               `gorm:"size:30;index"`
	Email       string               `gorm:"size:150"`
	Address     string               `gorm:"size:300"`
	BirthDate   *time.Time           `gorm:""`
	Status      CustomerStatus       `gorm:"size:10;not null;default:'ACTIVE'"`
	Affiliation InsuranceAffiliation `gorm:"embedded;embeddedPrefix:insurance_"`
	Notes       string               `gorm:"size:500"`
	DeletedAt   gorm.DeletedAt       `gorm:"index"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer
func NewCustomer(pharmacyID uuid.UUID, firstName, lastName, phone string) (*Customer, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer first and last name are required")
	}

	customer := &Customer{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		FirstName:             firstName,
		LastName:              lastName,
		Phone:                 strings.TrimSpace(phone),
		Status:                CustomerActive,
	}

	return customer, nil
}

// FullName returns the display name
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Affiliate attaches an insurer membership to the customer
func (c *Customer) Affiliate(insurerID uuid.UUID, membershipNumber, beneficiary string) error {
	if insurerID == uuid.Nil {
		return shared.NewDomainError("INVALID_INSURER", "Insurer is required for affiliation")
	}
	membershipNumber = strings.TrimSpace(membershipNumber)
	if membershipNumber == "" {
		return shared.NewDomainError("INVALID_MEMBERSHIP", "Membership number is required for affiliation")
	}

	c.Affiliation = InsuranceAffiliation{
		InsurerID:        insurerID,
		MembershipNumber: membershipNumber,
		Beneficiary:      strings.TrimSpace(beneficiary),
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// RemoveAffiliation detaches the insurer membership
func (c *Customer) RemoveAffiliation() {
	c.Affiliation = InsuranceAffiliation{}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate marks the customer inactive. History stays intact.
func (c *Customer) Deactivate() {
	c.Status = CustomerInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate marks the customer active
func (c *Customer) Activate() {
	c.Status = CustomerActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsActive reports whether the customer can be attached to new sales
func (c *Customer) IsActive() bool {
	return c.Status == CustomerActive
}

// UpdateContact updates the contact details
func (c *Customer) UpdateContact(phone, email, address string) {
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.Address = strings.TrimSpace(address)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
