package credit

import (
	"time"

	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest opens a credit account for a customer
type OpenAccountRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// RecordCreditSaleRequest books a sale amount as debt
type RecordCreditSaleRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	SaleRef    string          `json:"sale_ref" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	DueDate    time.Time       `json:"due_date" binding:"required"`
}

// RecordPaymentRequest applies a payment against a customer's open debts
type RecordPaymentRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Method     string          `json:"method" binding:"required,oneof=CASH CARD MOBILE_MONEY CHEQUE"`
	Reference  string          `json:"reference"`
}

// DebtEntryResponse is one open or settled debt line
type DebtEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	SaleRef     string          `json:"sale_ref"`
	Amount      decimal.Decimal `json:"amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
	Overdue     bool            `json:"overdue"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PaymentEntryResponse is one recorded payment
type PaymentEntryResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Operator  uuid.UUID       `json:"operator"`
	PaidAt    time.Time       `json:"paid_at"`
}

// AccountResponse is a credit account with its derived figures
type AccountResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Balance     decimal.Decimal `json:"balance"`
	Status      string          `json:"status"`
	Version     int             `json:"version"`
}

// StatementResponse is the full account statement
type StatementResponse struct {
	Account  AccountResponse        `json:"account"`
	Debts    []DebtEntryResponse    `json:"debts"`
	Payments []PaymentEntryResponse `json:"payments"`
}

// ToAccountResponse converts an account to its response form. Balance and
// status are computed here, never read from storage.
func ToAccountResponse(account *credit.CreditAccount) AccountResponse {
	return AccountResponse{
		ID:          account.ID,
		CustomerID:  account.CustomerID,
		CreditLimit: account.CreditLimit,
		Balance:     account.Balance(),
		Status:      string(account.Status()),
		Version:     account.GetVersion(),
	}
}

// ToStatementResponse converts an account with its entries
func ToStatementResponse(account *credit.CreditAccount, now time.Time) StatementResponse {
	statement := StatementResponse{
		Account:  ToAccountResponse(account),
		Debts:    make([]DebtEntryResponse, 0, len(account.Debts)),
		Payments: make([]PaymentEntryResponse, 0, len(account.Payments)),
	}
	for i := range account.Debts {
		d := &account.Debts[i]
		statement.Debts = append(statement.Debts, DebtEntryResponse{
			ID:          d.ID,
			SaleRef:     d.SaleRef,
			Amount:      d.Amount,
			AmountPaid:  d.AmountPaid,
			Outstanding: d.Outstanding(),
			DueDate:     d.DueDate,
			Status:      string(d.Status),
			Overdue:     d.IsOverdue(now),
			CreatedAt:   d.CreatedAt,
		})
	}
	for i := range account.Payments {
		p := &account.Payments[i]
		statement.Payments = append(statement.Payments, PaymentEntryResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    string(p.Method),
			Reference: p.Reference,
			Operator:  p.Operator,
			PaidAt:    p.PaidAt,
		})
	}
	return statement
}
