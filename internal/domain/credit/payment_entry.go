package credit

import (
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a debt payment was settled
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentCard        PaymentMethod = "CARD"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentCheque      PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentCheque:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentEntry is the immutable record of one payment against the account's
// debts. Once committed it is never edited; a mistaken payment is corrected
// by a compensating entry, not a delete.
type PaymentEntry struct {
	shared.BaseEntity
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method    PaymentMethod   `gorm:"size:20;not null"`
	Reference string          `gorm:"size:100"`
	Operator  uuid.UUID       `gorm:"type:uuid;not null"`
	PaidAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentEntry) TableName() string {
	return "payment_entries"
}

func newPaymentEntry(accountID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string, operator uuid.UUID) *PaymentEntry {
	return &PaymentEntry{
		BaseEntity: shared.NewBaseEntity(),
		AccountID:  accountID,
		Amount:     amount,
		Method:     method,
		Reference:  reference,
		Operator:   operator,
		PaidAt:     time.Now(),
	}
}

// GetAmountMoney returns the payment amount as Money
func (p *PaymentEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyXOF(p.Amount)
}
