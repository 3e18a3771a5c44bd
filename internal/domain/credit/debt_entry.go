package credit

import (
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtStatus is the payment progress of one debt entry
type DebtStatus string

const (
	DebtUnpaid        DebtStatus = "UNPAID"
	DebtPartiallyPaid DebtStatus = "PARTIALLY_PAID"
	DebtFullyPaid     DebtStatus = "FULLY_PAID"
)

// DebtEntry records the debt created by one credit sale. It is mutated only
// by applying payments - the amount itself is never decremented or edited.
type DebtEntry struct {
	shared.BaseEntity
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleRef    string          `gorm:"size:50;not null"` // originating sale number
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate    time.Time       `gorm:"not null;index"`
	Status     DebtStatus      `gorm:"size:20;not null;default:'UNPAID'"`
}

// TableName returns the table name for GORM
func (DebtEntry) TableName() string {
	return "debt_entries"
}

func newDebtEntry(accountID uuid.UUID, saleRef string, amount decimal.Decimal, dueDate time.Time) *DebtEntry {
	return &DebtEntry{
		BaseEntity: shared.NewBaseEntity(),
		AccountID:  accountID,
		SaleRef:    saleRef,
		Amount:     amount,
		AmountPaid: decimal.Zero,
		DueDate:    dueDate,
		Status:     DebtUnpaid,
	}
}

// Outstanding returns the unpaid remainder of this entry
func (d *DebtEntry) Outstanding() decimal.Decimal {
	return d.Amount.Sub(d.AmountPaid)
}

// IsOverdue returns true if the entry is past due and not fully paid
func (d *DebtEntry) IsOverdue(now time.Time) bool {
	return d.Status != DebtFullyPaid && now.After(d.DueDate)
}

// applyPayment consumes as much of the available amount as this entry's
// outstanding remainder allows and returns what is left of the payment
func (d *DebtEntry) applyPayment(available decimal.Decimal) decimal.Decimal {
	outstanding := d.Outstanding()
	if !available.IsPositive() || !outstanding.IsPositive() {
		return available
	}

	take := decimal.Min(available, outstanding)
	d.AmountPaid = d.AmountPaid.Add(take)

	if d.AmountPaid.GreaterThanOrEqual(d.Amount) {
		d.Status = DebtFullyPaid
	} else {
		d.Status = DebtPartiallyPaid
	}
	d.UpdatedAt = time.Now()

	return available.Sub(take)
}

// GetAmountMoney returns the debt amount as Money
func (d *DebtEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyXOF(d.Amount)
}

// GetOutstandingMoney returns the unpaid remainder as Money
func (d *DebtEntry) GetOutstandingMoney() valueobject.Money {
	return valueobject.NewMoneyXOF(d.Outstanding())
}
