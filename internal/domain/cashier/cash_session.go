package cashier

import (
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle of a cash session
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// TransactionKind classifies a cash transaction
type TransactionKind string

const (
	TransactionSale    TransactionKind = "SALE"
	TransactionInflow  TransactionKind = "INFLOW"
	TransactionOutflow TransactionKind = "OUTFLOW"
)

// IsValid checks if the transaction kind is valid
func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionSale, TransactionInflow, TransactionOutflow:
		return true
	}
	return false
}

// CashTransaction is one immutable cash movement inside a session
type CashTransaction struct {
	shared.BaseEntity
	SessionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        TransactionKind `gorm:"size:10;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"size:300"`
	Method      string          `gorm:"size:20"` // especes, carte, mobile money, cheque
	Reference   string          `gorm:"size:100"`
	Actor       uuid.UUID       `gorm:"type:uuid;not null"`
	RecordedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashTransaction) TableName() string {
	return "cash_transactions"
}

// CashSession is the aggregate root for one register-day. At most one
// session per register may be open at a time (enforced by the application
// layer against the store). The theoretical balance and variance are
// computed exactly once at close and frozen - later corrections go through
// adjustment transactions in a new session, never retroactive edits.
type CashSession struct {
	shared.PharmacyAggregateRoot
	Register      string           `gorm:"size:50;not null;index"`
	OpenedBy      uuid.UUID        `gorm:"type:uuid;not null"`
	OpenedAt      time.Time        `gorm:"not null"`
	ClosedBy      *uuid.UUID       `gorm:"type:uuid"`
	ClosedAt      *time.Time       `gorm:""`
	OpeningFloat  decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	CountedFloat  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Theoretical   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Variance      *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Status        SessionStatus    `gorm:"size:10;not null;default:'OPEN'"`

	// Association - loaded with the aggregate
	Transactions []CashTransaction `gorm:"foreignKey:SessionID;references:ID"`
}

// TableName returns the table name for GORM
func (CashSession) TableName() string {
	return "cash_sessions"
}

// OpenSession opens a register session with the given opening float
func OpenSession(pharmacyID uuid.UUID, register string, openingFloat valueobject.Money, actor uuid.UUID) (*CashSession, error) {
	if register == "" {
		return nil, shared.NewDomainError("INVALID_REGISTER", "Register identifier cannot be empty")
	}
	if openingFloat.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FLOAT", "Opening float cannot be negative")
	}
	if actor == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Session opener is required")
	}

	session := &CashSession{
		PharmacyAggregateRoot: shared.NewPharmacyAggregateRoot(pharmacyID),
		Register:              register,
		OpenedBy:              actor,
		OpenedAt:              time.Now(),
		OpeningFloat:          openingFloat.Amount(),
		Status:                SessionOpen,
		Transactions:          make([]CashTransaction, 0),
	}

	session.AddDomainEvent(NewSessionOpenedEvent(session))

	return session, nil
}

// IsOpen returns true while transactions may still be recorded
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionOpen
}

// RecordTransaction appends a cash transaction. Only valid while the
// session is open.
func (s *CashSession) RecordTransaction(kind TransactionKind, amount valueobject.Money, description, method, reference string, actor uuid.UUID) (*CashTransaction, error) {
	if !s.IsOpen() {
		return nil, shared.ErrSessionNotOpen
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Transaction kind is not valid")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	if actor == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Transaction actor is required")
	}

	tx := &CashTransaction{
		BaseEntity:  shared.NewBaseEntity(),
		SessionID:   s.ID,
		Kind:        kind,
		Amount:      amount.Amount(),
		Description: description,
		Method:      method,
		Reference:   reference,
		Actor:       actor,
		RecordedAt:  time.Now(),
	}
	s.Transactions = append(s.Transactions, *tx)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return tx, nil
}

// TheoreticalBalance computes opening float plus sales and inflows minus
// outflows over the recorded transactions. Order of recording is
// irrelevant - it is a plain sum.
func (s *CashSession) TheoreticalBalance() decimal.Decimal {
	balance := s.OpeningFloat
	for i := range s.Transactions {
		switch s.Transactions[i].Kind {
		case TransactionSale, TransactionInflow:
			balance = balance.Add(s.Transactions[i].Amount)
		case TransactionOutflow:
			balance = balance.Sub(s.Transactions[i].Amount)
		}
	}
	return balance
}

// CloseResult carries the figures frozen at close
type CloseResult struct {
	Theoretical decimal.Decimal
	Variance    decimal.Decimal
}

// Close freezes the session. The theoretical balance and the variance
// against the counted float are computed here once and never recomputed;
// closing an already-closed session fails with SESSION_NOT_OPEN.
func (s *CashSession) Close(countedFloat valueobject.Money, actor uuid.UUID) (*CloseResult, error) {
	if !s.IsOpen() {
		return nil, shared.ErrSessionNotOpen
	}
	if countedFloat.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FLOAT", "Counted float cannot be negative")
	}
	if actor == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Session closer is required")
	}

	theoretical := s.TheoreticalBalance()
	counted := countedFloat.Amount()
	variance := counted.Sub(theoretical)
	now := time.Now()

	s.CountedFloat = &counted
	s.Theoretical = &theoretical
	s.Variance = &variance
	s.ClosedBy = &actor
	s.ClosedAt = &now
	s.Status = SessionClosed
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSessionClosedEvent(s))

	return &CloseResult{Theoretical: theoretical, Variance: variance}, nil
}

// TotalByKind sums the transactions of one kind
func (s *CashSession) TotalByKind(kind TransactionKind) decimal.Decimal {
	total := decimal.Zero
	for i := range s.Transactions {
		if s.Transactions[i].Kind == kind {
			total = total.Add(s.Transactions[i].Amount)
		}
	}
	return total
}
