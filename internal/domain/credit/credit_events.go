package credit

import (
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the credit context
const (
	EventTypeCreditSaleRecorded = "credit.sale.recorded"
	EventTypePaymentRecorded    = "credit.payment.recorded"
)

// CreditSaleRecordedEvent is emitted when a debt entry is appended. The
// derived status after the sale rides along so the notification system can
// warn about accounts that just became WATCHED or BLOCKED.
type CreditSaleRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	DebtEntryID uuid.UUID       `json:"debt_entry_id"`
	SaleRef     string          `json:"sale_ref"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Standing    AccountStatus   `json:"standing"`
}

// NewCreditSaleRecordedEvent creates a CreditSaleRecordedEvent
func NewCreditSaleRecordedEvent(a *CreditAccount, entry *DebtEntry) *CreditSaleRecordedEvent {
	return &CreditSaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreditSaleRecorded, "CreditAccount", a.ID, a.PharmacyID),
		CustomerID:      a.CustomerID,
		DebtEntryID:     entry.ID,
		SaleRef:         entry.SaleRef,
		Amount:          entry.Amount,
		Balance:         a.Balance(),
		Standing:        a.Status(),
	}
}

// PaymentRecordedEvent is emitted when a payment is applied to the account
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	PaymentID  uuid.UUID       `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	Balance    decimal.Decimal `json:"balance"`
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent
func NewPaymentRecordedEvent(a *CreditAccount, payment *PaymentEntry) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, "CreditAccount", a.ID, a.PharmacyID),
		CustomerID:      a.CustomerID,
		PaymentID:       payment.ID,
		Amount:          payment.Amount,
		Method:          payment.Method,
		Balance:         a.Balance(),
	}
}
