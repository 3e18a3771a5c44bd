package cashier

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest opens a register session
type OpenSessionRequest struct {
	Register     string          `json:"register" binding:"required"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

// RecordTransactionRequest appends a cash transaction to the open session
type RecordTransactionRequest struct {
	Register    string          `json:"register" binding:"required"`
	Kind        string          `json:"kind" binding:"required,oneof=SALE INFLOW OUTFLOW"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
}

// CloseSessionRequest reconciles and closes the open session of a register
type CloseSessionRequest struct {
	Register     string          `json:"register" binding:"required"`
	CountedFloat decimal.Decimal `json:"counted_float"`
}

// SessionResponse represents a cash session in API responses
type SessionResponse struct {
	ID           uuid.UUID        `json:"id"`
	Register     string           `json:"register"`
	Status       string           `json:"status"`
	OpenedAt     time.Time        `json:"opened_at"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
	OpeningFloat decimal.Decimal  `json:"opening_float"`
	CountedFloat *decimal.Decimal `json:"counted_float,omitempty"`
	Theoretical  *decimal.Decimal `json:"theoretical,omitempty"`
	Variance     *decimal.Decimal `json:"variance,omitempty"`
	Transactions int              `json:"transactions"`
}

// ToSessionResponse converts a session to its response form
func ToSessionResponse(session *cashier.CashSession) SessionResponse {
	return SessionResponse{
		ID:           session.ID,
		Register:     session.Register,
		Status:       string(session.Status),
		OpenedAt:     session.OpenedAt,
		ClosedAt:     session.ClosedAt,
		OpeningFloat: session.OpeningFloat,
		CountedFloat: session.CountedFloat,
		Theoretical:  session.Theoretical,
		Variance:     session.Variance,
		Transactions: len(session.Transactions),
	}
}

// CashierService handles register sessions. At most one session per
// register is open at a time; the check runs under a row lock so two
// cashiers cannot open the same register concurrently.
type CashierService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCashierService creates a new CashierService
func NewCashierService(txScope TransactionScope) *CashierService {
	return &CashierService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CashierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// OpenSession opens a session on a register. Fails with
// SESSION_ALREADY_OPEN when the register has one.
func (s *CashierService) OpenSession(ctx context.Context, pharmacyID, actor uuid.UUID, req OpenSessionRequest) (*SessionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var session *cashier.CashSession
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		open, err := repos.SessionRepo().FindOpenByRegisterForUpdate(ctx, pharmacyID, req.Register)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if open != nil {
			return shared.ErrSessionAlreadyOpen
		}

		session, err = cashier.OpenSession(pharmacyID, req.Register, valueobject.NewMoneyXOF(req.OpeningFloat), actor)
		if err != nil {
			return err
		}
		return repos.SessionRepo().Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)
	resp := ToSessionResponse(session)
	return &resp, nil
}

// RecordTransaction appends a cash movement to the register's open session
func (s *CashierService) RecordTransaction(ctx context.Context, pharmacyID, actor uuid.UUID, req RecordTransactionRequest) (*SessionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var session *cashier.CashSession
	operation := func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.SessionRepo().FindOpenByRegisterForUpdate(ctx, pharmacyID, req.Register)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrSessionNotOpen
		}
		if err != nil {
			return err
		}

		_, err = session.RecordTransaction(
			cashier.TransactionKind(req.Kind),
			valueobject.NewMoneyXOF(req.Amount),
			req.Description,
			req.Method,
			req.Reference,
			actor,
		)
		if err != nil {
			return err
		}
		return repos.SessionRepo().SaveWithVersion(ctx, session, session.GetVersion()-1)
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return nil, err
	}

	resp := ToSessionResponse(session)
	return &resp, nil
}

// CloseSession reconciles the open session of a register against the
// counted float and freezes the variance. Closing again fails with
// SESSION_NOT_OPEN and the frozen figures stay as they are.
func (s *CashierService) CloseSession(ctx context.Context, pharmacyID, actor uuid.UUID, req CloseSessionRequest) (*SessionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var session *cashier.CashSession
	operation := func(repos TransactionalRepositories) error {
		var err error
		session, err = repos.SessionRepo().FindOpenByRegisterForUpdate(ctx, pharmacyID, req.Register)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrSessionNotOpen
		}
		if err != nil {
			return err
		}

		if _, err := session.Close(valueobject.NewMoneyXOF(req.CountedFloat), actor); err != nil {
			return err
		}
		return repos.SessionRepo().SaveWithVersion(ctx, session, session.GetVersion()-1)
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)
	resp := ToSessionResponse(session)
	return &resp, nil
}

// GetSession returns a session by ID
func (s *CashierService) GetSession(ctx context.Context, pharmacyID, sessionID uuid.UUID) (*SessionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp SessionResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.SessionRepo().FindByID(ctx, pharmacyID, sessionID)
		if err != nil {
			return err
		}
		resp = ToSessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSessions returns sessions, newest first
func (s *CashierService) ListSessions(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]SessionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var responses []SessionResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sessions, err := repos.SessionRepo().FindAll(ctx, pharmacyID, filter)
		if err != nil {
			return err
		}
		responses = make([]SessionResponse, 0, len(sessions))
		for _, session := range sessions {
			responses = append(responses, ToSessionResponse(session))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *CashierService) executeWithRetry(ctx context.Context, operation func(repos TransactionalRepositories) error) error {
	err := s.txScope.Execute(ctx, operation)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		err = s.txScope.Execute(ctx, operation)
	}
	return err
}

func (s *CashierService) publishEvents(ctx context.Context, session *cashier.CashSession) {
	if s.eventPublisher == nil || session == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, session.GetDomainEvents()...)
	session.ClearDomainEvents()
}
