package insurance

import (
	"strings"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InsurerKind distinguishes the third-party payer types found in Senegal
type InsurerKind string

const (
	KindMutuelle       InsurerKind = "MUTUELLE"
	KindAssurance      InsurerKind = "ASSURANCE"
	KindSecuriteSocial InsurerKind = "SECURITE_SOCIALE"
	KindEntreprise     InsurerKind = "ENTREPRISE"
)

// IsValid checks if the insurer kind is valid
func (k InsurerKind) IsValid() bool {
	switch k {
	case KindMutuelle, KindAssurance, KindSecuriteSocial, KindEntreprise:
		return true
	}
	return false
}

// InsurerStatus represents the insurer account state
type InsurerStatus string

const (
	InsurerActive    InsurerStatus = "ACTIVE"
	InsurerSuspended InsurerStatus = "SUSPENDED"
)

// Insurer is a third-party payer (IPM) the pharmacy has a convention
// with. CoverageRate is a percentage in [0,100]; the patient pays the
// complement (ticket moderateur). MonthlyCeiling caps the insurer share
// per member per calendar month; zero means no ceiling.
type Insurer struct {
	shared.PharmacyAggregateRoot
	Name            string          `gorm:"size:150;not null;index"`
	Kind            InsurerKind     `gorm:"size:20;not null"`
	CoverageRate    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	MonthlyCeiling  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentDelayDays int            `gorm:"not null;default:30"`
	ContactName     string          `gorm:"size:150"`
	Phone           string          `gorm:"size:30"`
	Email           string          `gorm:"size:150"`
	Address         string          `gorm:"size:300"`
	Status          InsurerStatus   `gorm:"size:10;not null;default:'ACTIVE'"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (Insurer) TableName() string {
	return "insurers"
}

// NewInsurer creates an insurer convention
func NewInsurer(pharmacyID uuid.UUID, name string, kind InsurerKind, coverageRate decimal.Decimal) (*Insurer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Insurer name is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Insurer kind is not valid")
	}
	if coverageRate.IsNegative() || coverageRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_RATE", "Coverage rate must be between 0 and 100")
	}

	return &Insurer{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		Name:                  name,
		Kind:                  kind,
		CoverageRate:          coverageRate,
		MonthlyCeiling:        decimal.Zero,
		PaymentDelayDays:      30,
		Status:                InsurerActive,
	}, nil
}

// IsActive reports whether new covered sales may reference the insurer
func (i *Insurer) IsActive() bool {
	return i.Status == InsurerActive
}

// Suspend blocks new covered sales for the insurer
func (i *Insurer) Suspend() {
	i.Status = InsurerSuspended
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// Reinstate re-enables covered sales
func (i *Insurer) Reinstate() {
	i.Status = InsurerActive
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// SetCeiling sets the per-member monthly ceiling. Zero disables it.
func (i *Insurer) SetCeiling(ceiling valueobject.Money) error {
	if ceiling.IsNegative() {
		return shared.NewDomainError("INVALID_CEILING", "Monthly ceiling cannot be negative")
	}
	i.MonthlyCeiling = ceiling.Amount()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// CoverageSplit is the payer breakdown of a covered sale
type CoverageSplit struct {
	Total        decimal.Decimal
	InsurerShare decimal.Decimal
	PatientShare decimal.Decimal
}

// Split computes the payer breakdown for a sale total. The insurer share
// is total times rate, rounded to the currency unit; the patient share is
// the exact complement so the two always sum back to the total. When the
// member has already consumed part of the monthly ceiling, the insurer
// share is capped at the remaining headroom.
func (i *Insurer) Split(total valueobject.Money, consumedThisMonth decimal.Decimal) (CoverageSplit, error) {
	if total.IsNegative() {
		return CoverageSplit{}, shared.NewDomainError("INVALID_AMOUNT", "Sale total cannot be negative")
	}

	amount := total.Amount()
	share := amount.Mul(i.CoverageRate).Div(decimal.NewFromInt(100)).Round(0)

	if i.MonthlyCeiling.IsPositive() {
		headroom := i.MonthlyCeiling.Sub(consumedThisMonth)
		if headroom.IsNegative() {
			headroom = decimal.Zero
		}
		if share.GreaterThan(headroom) {
			share = headroom
		}
	}
	if share.GreaterThan(amount) {
		share = amount
	}

	return CoverageSplit{
		Total:        amount,
		InsurerShare: share,
		PatientShare: amount.Sub(share),
	}, nil
}
