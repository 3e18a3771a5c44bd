package credit

import (
	"sort"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountStatus is the derived standing of a credit account. It is never
// stored: Status() recomputes it from the balance on every read so it can
// not drift from the debt entries.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusWatched AccountStatus = "WATCHED" // balance at or above 80% of the limit
	AccountStatusBlocked AccountStatus = "BLOCKED" // balance at or above the limit
)

// watchRatio is the fraction of the limit at which an account becomes WATCHED
var watchRatio = decimal.NewFromFloat(0.8)

// CreditAccount is the aggregate root for one customer's credit standing.
// The running balance is the sum of outstanding debt entries - a derived
// read, not a stored figure. Debt entries are only ever mutated by applying
// payments; payment entries are append-only audit facts.
type CreditAccount struct {
	shared.PharmacyAggregateRoot
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_credit_account_customer,priority:2"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	// Associations - loaded with the aggregate
	Debts    []DebtEntry    `gorm:"foreignKey:AccountID;references:ID"`
	Payments []PaymentEntry `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName returns the table name for GORM
func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// NewCreditAccount opens a credit account for a customer
func NewCreditAccount(pharmacyID, customerID uuid.UUID, limit valueobject.Money) (*CreditAccount, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if limit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_LIMIT", "Credit limit cannot be negative")
	}

	account := &CreditAccount{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		CustomerID:            customerID,
		CreditLimit:           limit.Amount(),
		Debts:                 make([]DebtEntry, 0),
		Payments:              make([]PaymentEntry, 0),
	}

	return account, nil
}

// Balance returns the outstanding debt: the sum of unpaid remainders across
// all debt entries
func (a *CreditAccount) Balance() decimal.Decimal {
	balance := decimal.Zero
	for i := range a.Debts {
		balance = balance.Add(a.Debts[i].Outstanding())
	}
	return balance
}

// Status derives the account standing from the current balance
func (a *CreditAccount) Status() AccountStatus {
	if a.CreditLimit.IsZero() {
		if a.Balance().IsPositive() {
			return AccountStatusBlocked
		}
		return AccountStatusActive
	}

	balance := a.Balance()
	if balance.GreaterThanOrEqual(a.CreditLimit) {
		return AccountStatusBlocked
	}
	if balance.GreaterThanOrEqual(a.CreditLimit.Mul(watchRatio)) {
		return AccountStatusWatched
	}
	return AccountStatusActive
}

// RecordCreditSale appends a debt entry for a credit sale. Fails with
// CREDIT_LIMIT_EXCEEDED when balance + amount would breach the limit; a sale
// that lands exactly on the limit is accepted (and the account reads as
// BLOCKED afterwards). The limit check and the entry creation are one
// decision - the application layer runs this under a row lock on the
// account so concurrent sales cannot both pass the check.
func (a *CreditAccount) RecordCreditSale(saleRef string, amount valueobject.Money, dueDate time.Time) (*DebtEntry, error) {
	if saleRef == "" {
		return nil, shared.NewDomainError("INVALID_SALE_REF", "Sale reference cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit sale amount must be positive")
	}
	if a.Balance().Add(amount.Amount()).GreaterThan(a.CreditLimit) {
		return nil, shared.ErrCreditLimitExceeded
	}

	entry := newDebtEntry(a.ID, saleRef, amount.Amount(), dueDate)
	a.Debts = append(a.Debts, *entry)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewCreditSaleRecordedEvent(a, entry))

	return entry, nil
}

// ApplyPayment records a payment and allocates it across debt entries,
// oldest due date first, until the payment is exhausted. Overpayment is
// rejected with OVERPAYMENT_REJECTED - no customer credit float is modeled.
func (a *CreditAccount) ApplyPayment(amount valueobject.Money, method PaymentMethod, reference string, operator uuid.UUID) (*PaymentEntry, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if operator == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Payment operator is required")
	}
	if amount.Amount().GreaterThan(a.Balance()) {
		return nil, shared.ErrOverpaymentRejected
	}

	// Oldest due date first, same greedy discipline as FEFO allocation
	order := a.openDebtsByDueDate()

	remaining := amount.Amount()
	for _, idx := range order {
		if remaining.IsZero() {
			break
		}
		remaining = a.Debts[idx].applyPayment(remaining)
	}

	payment := newPaymentEntry(a.ID, amount.Amount(), method, reference, operator)
	a.Payments = append(a.Payments, *payment)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewPaymentRecordedEvent(a, payment))

	return payment, nil
}

// openDebtsByDueDate returns indexes of not-fully-paid debts ordered by due
// date ascending, entry creation time as tie-break
func (a *CreditAccount) openDebtsByDueDate() []int {
	order := make([]int, 0, len(a.Debts))
	for i := range a.Debts {
		if a.Debts[i].Status != DebtFullyPaid {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		x, y := &a.Debts[order[i]], &a.Debts[order[j]]
		if !x.DueDate.Equal(y.DueDate) {
			return x.DueDate.Before(y.DueDate)
		}
		return x.CreatedAt.Before(y.CreatedAt)
	})
	return order
}

// SetCreditLimit changes the authorized limit. Lowering it below the current
// balance is allowed - the account simply reads as BLOCKED until paid down.
func (a *CreditAccount) SetCreditLimit(limit valueobject.Money) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_LIMIT", "Credit limit cannot be negative")
	}

	a.CreditLimit = limit.Amount()
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// GetBalanceMoney returns the outstanding balance as Money
func (a *CreditAccount) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyXOF(a.Balance())
}

// GetCreditLimitMoney returns the authorized limit as Money
func (a *CreditAccount) GetCreditLimitMoney() valueobject.Money {
	return valueobject.NewMoneyXOF(a.CreditLimit)
}
