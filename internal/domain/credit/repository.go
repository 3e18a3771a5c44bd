package credit

import (
	"context"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreditAccountRepository defines the interface for credit account
// persistence. Implementations load the account with its debt and payment
// associations so balance and status derive from a complete picture.
type CreditAccountRepository interface {
	// FindByID finds an account by ID within a pharmacy
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*CreditAccount, error)

	// FindByCustomer finds the account for a customer
	FindByCustomer(ctx context.Context, pharmacyID, customerID uuid.UUID) (*CreditAccount, error)

	// FindByCustomerForUpdate loads the account under a row-level write
	// lock; must run inside a transaction. Serializes the limit check
	// against concurrent credit sales from other terminals.
	FindByCustomerForUpdate(ctx context.Context, pharmacyID, customerID uuid.UUID) (*CreditAccount, error)

	// FindAll returns all accounts for a pharmacy
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]CreditAccount, error)

	// Save persists the account together with appended debt and payment
	// entries
	Save(ctx context.Context, account *CreditAccount) error

	// SaveWithVersion saves with optimistic locking; returns
	// shared.ErrConcurrencyConflict when the stored version moved on
	SaveWithVersion(ctx context.Context, account *CreditAccount) error

	// Count counts accounts matching the filter
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
