package insurance

import (
	"time"

	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInsurerRequest registers a convention with a third-party payer
type CreateInsurerRequest struct {
	Name           string          `json:"name" binding:"required,max=150"`
	Kind           string          `json:"kind" binding:"required,oneof=MUTUELLE ASSURANCE SECURITE_SOCIALE ENTREPRISE"`
	CoverageRate   decimal.Decimal `json:"coverage_rate" binding:"required"`
	MonthlyCeiling decimal.Decimal `json:"monthly_ceiling"`
	ContactName    string          `json:"contact_name" binding:"max=150"`
	Phone          string          `json:"phone" binding:"max=30,sn_phone"`
	Email          string          `json:"email" binding:"omitempty,email,max=150"`
	Address        string          `json:"address" binding:"max=300"`
}

// InsurerResponse is the API representation of an insurer
type InsurerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	CoverageRate   decimal.Decimal `json:"coverage_rate"`
	MonthlyCeiling decimal.Decimal `json:"monthly_ceiling"`
	ContactName    string          `json:"contact_name,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToInsurerResponse converts an insurer to its API representation
func ToInsurerResponse(i *insurance.Insurer) *InsurerResponse {
	return &InsurerResponse{
		ID:             i.ID,
		Name:           i.Name,
		Kind:           string(i.Kind),
		CoverageRate:   i.CoverageRate,
		MonthlyCeiling: i.MonthlyCeiling,
		ContactName:    i.ContactName,
		Phone:          i.Phone,
		Email:          i.Email,
		Status:         string(i.Status),
		CreatedAt:      i.CreatedAt,
	}
}

// ClaimResponse is the API representation of a claim
type ClaimResponse struct {
	ID               uuid.UUID       `json:"id"`
	InsurerID        uuid.UUID       `json:"insurer_id"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	MembershipNumber string          `json:"membership_number"`
	SaleRef          string          `json:"sale_ref"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InsurerShare     decimal.Decimal `json:"insurer_share"`
	PatientShare     decimal.Decimal `json:"patient_share"`
	Status           string          `json:"status"`
	SoldAt           time.Time       `json:"sold_at"`
	InvoiceRef       string          `json:"invoice_ref,omitempty"`
	InvoicedAt       *time.Time      `json:"invoiced_at,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
}

// ToClaimResponse converts a claim to its API representation
func ToClaimResponse(c *insurance.Claim) *ClaimResponse {
	return &ClaimResponse{
		ID:               c.ID,
		InsurerID:        c.InsurerID,
		CustomerID:       c.CustomerID,
		MembershipNumber: c.MembershipNumber,
		SaleRef:          c.SaleRef,
		TotalAmount:      c.TotalAmount,
		InsurerShare:     c.InsurerShare,
		PatientShare:     c.PatientShare,
		Status:           string(c.Status),
		SoldAt:           c.SoldAt,
		InvoiceRef:       c.InvoiceRef,
		InvoicedAt:       c.InvoicedAt,
		PaidAt:           c.PaidAt,
	}
}

// InvoiceResponse summarizes a batch invoice sent to an insurer
type InvoiceResponse struct {
	InvoiceRef string          `json:"invoice_ref"`
	InsurerID  uuid.UUID       `json:"insurer_id"`
	ClaimCount int             `json:"claim_count"`
	Total      decimal.Decimal `json:"total"`
	InvoicedAt time.Time       `json:"invoiced_at"`
}

// SettlementResponse summarizes a settled invoice
type SettlementResponse struct {
	InvoiceRef string          `json:"invoice_ref"`
	InsurerID  uuid.UUID       `json:"insurer_id"`
	ClaimCount int             `json:"claim_count"`
	Total      decimal.Decimal `json:"total"`
	PaidAt     time.Time       `json:"paid_at"`
}
