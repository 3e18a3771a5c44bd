package cashier

import (
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SessionOpenedEvent is emitted when a register session opens
type SessionOpenedEvent struct {
	shared.BaseDomainEvent
	Register     string          `json:"register"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

// NewSessionOpenedEvent creates a session opened event
func NewSessionOpenedEvent(session *CashSession) *SessionOpenedEvent {
	return &SessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			"cashier.session.opened",
			"CashSession",
			session.ID,
			session.GetPharmacyID(),
		),
		Register:     session.Register,
		OpeningFloat: session.OpeningFloat,
	}
}

// SessionClosedEvent is emitted when a register session is reconciled
// and closed. A non-zero variance is worth surfacing to the manager.
type SessionClosedEvent struct {
	shared.BaseDomainEvent
	Register    string          `json:"register"`
	Theoretical decimal.Decimal `json:"theoretical"`
	Counted     decimal.Decimal `json:"counted"`
	Variance    decimal.Decimal `json:"variance"`
}

// NewSessionClosedEvent creates a session closed event
func NewSessionClosedEvent(session *CashSession) *SessionClosedEvent {
	return &SessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			"cashier.session.closed",
			"CashSession",
			session.ID,
			session.GetPharmacyID(),
		),
		Register:    session.Register,
		Theoretical: *session.Theoretical,
		Counted:     *session.CountedFloat,
		Variance:    *session.Variance,
	}
}
