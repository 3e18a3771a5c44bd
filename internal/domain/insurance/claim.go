package insurance

import (
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClaimStatus tracks a claim through the reimbursement cycle
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "PENDING"
	ClaimInvoiced ClaimStatus = "INVOICED"
	ClaimPaid     ClaimStatus = "PAID"
)

// Claim is one insurer-share receivable created at checkout for a
// covered sale. Claims accumulate per insurer and are batch-invoiced
// at the end of the period, then settled when the insurer pays.
type Claim struct {
	shared.PharmacyAggregateRoot
	InsurerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MembershipNumber string          `gorm:"size:50;not null"`
	SaleRef          string          `gorm:"size:100;not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InsurerShare     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PatientShare     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status           ClaimStatus     `gorm:"size:10;not null;default:'PENDING';index"`
	SoldAt           time.Time       `gorm:"not null;index"`
	InvoiceRef       string          `gorm:"size:100"`
	InvoicedAt       *time.Time      `gorm:""`
	PaidAt           *time.Time      `gorm:""`
}

// TableName returns the table name for GORM
func (Claim) TableName() string {
	return "insurance_claims"
}

// NewClaim creates a pending claim from a coverage split
func NewClaim(pharmacyID, insurerID, customerID uuid.UUID, membershipNumber, saleRef string, split CoverageSplit, soldAt time.Time) (*Claim, error) {
	if insurerID == uuid.Nil || customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Claim requires an insurer and a customer")
	}
	if saleRef == "" {
		return nil, shared.NewDomainError("INVALID_SALE_REF", "Claim requires a sale reference")
	}
	if !split.InsurerShare.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Claim requires a positive insurer share")
	}

	claim := &Claim{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		InsurerID:             insurerID,
		CustomerID:            customerID,
		MembershipNumber:      membershipNumber,
		SaleRef:               saleRef,
		TotalAmount:           split.Total,
		InsurerShare:          split.InsurerShare,
		PatientShare:          split.PatientShare,
		Status:                ClaimPending,
		SoldAt:                soldAt,
	}

	claim.AddDomainEvent(NewClaimCreatedEvent(claim))

	return claim, nil
}

// MarkInvoiced moves the claim into the invoiced batch
func (c *Claim) MarkInvoiced(invoiceRef string, at time.Time) error {
	if c.Status != ClaimPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending claims can be invoiced")
	}
	if invoiceRef == "" {
		return shared.NewDomainError("INVALID_INVOICE_REF", "Invoice reference is required")
	}
	c.Status = ClaimInvoiced
	c.InvoiceRef = invoiceRef
	c.InvoicedAt = &at
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MarkPaid settles the claim
func (c *Claim) MarkPaid(at time.Time) error {
	if c.Status != ClaimInvoiced {
		return shared.NewDomainError("INVALID_STATE", "Only invoiced claims can be settled")
	}
	c.Status = ClaimPaid
	c.PaidAt = &at
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
