package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod values accepted at checkout. CREDIT is exclusive: a sale
// is either fully on the customer's credit account or fully paid now.
const (
	PayCash        = "CASH"
	PayCard        = "CARD"
	PayMobileMoney = "MOBILE_MONEY"
	PayCredit      = "CREDIT"
)

// CheckoutLine is one product draw of a sale
type CheckoutLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest is a complete point-of-sale checkout
type CheckoutRequest struct {
	Register       string         `json:"register" binding:"required"`
	Lines          []CheckoutLine `json:"lines" binding:"required,min=1,dive"`
	PaymentMethod  string         `json:"payment_method" binding:"required,oneof=CASH CARD MOBILE_MONEY CREDIT"`
	CustomerID     *uuid.UUID     `json:"customer_id"`
	UseInsurance   bool           `json:"use_insurance"`
	PrescriptionID *uuid.UUID     `json:"prescription_id"`
}

// AllocationResult reports which lots served one checkout line
type AllocationResult struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	LineTotal decimal.Decimal  `json:"line_total"`
	Draws     []LotDrawResult  `json:"draws"`
}

// LotDrawResult is one lot draw inside an allocation
type LotDrawResult struct {
	LotID     uuid.UUID `json:"lot_id"`
	LotNumber string    `json:"lot_number"`
	Quantity  int64     `json:"quantity"`
}

// CheckoutResponse summarizes a committed sale
type CheckoutResponse struct {
	SaleRef       string             `json:"sale_ref"`
	Total         decimal.Decimal    `json:"total"`
	InsurerShare  decimal.Decimal    `json:"insurer_share"`
	PatientShare  decimal.Decimal    `json:"patient_share"`
	PaymentMethod string             `json:"payment_method"`
	ClaimID       *uuid.UUID         `json:"claim_id,omitempty"`
	Allocations   []AllocationResult `json:"allocations"`
	SoldAt        time.Time          `json:"sold_at"`
}
