package cashier

import (
	"context"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CashSessionRepository persists cash sessions. All queries are scoped
// to a pharmacy.
type CashSessionRepository interface {
	// FindByID loads a session with its transactions
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*CashSession, error)

	// FindOpenByRegister returns the open session for a register, or
	// shared.ErrNotFound when the register has no open session
	FindOpenByRegister(ctx context.Context, pharmacyID uuid.UUID, register string) (*CashSession, error)

	// FindOpenByRegisterForUpdate is FindOpenByRegister under a row lock,
	// used when closing or recording transactions
	FindOpenByRegisterForUpdate(ctx context.Context, pharmacyID uuid.UUID, register string) (*CashSession, error)

	// FindAll lists sessions, newest first
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*CashSession, error)

	// FindClosedBetween lists closed sessions in a time range, for reports
	FindClosedBetween(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]*CashSession, error)

	// Save persists a session and its transactions
	Save(ctx context.Context, session *CashSession) error

	// SaveWithVersion persists with an optimistic version check and
	// returns shared.ErrConcurrencyConflict on a stale aggregate
	SaveWithVersion(ctx context.Context, session *CashSession, expectedVersion int) error

	// Count returns the number of sessions matching the filter
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
