package inventory

import (
	"context"
	"time"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockLotRepository defines the interface for stock lot persistence
type StockLotRepository interface {
	// FindByID finds a lot by ID within a pharmacy
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*StockLot, error)

	// FindByIDForUpdate finds a lot and takes a row-level write lock on it;
	// must be called inside a transaction. Used by the read-check-write path
	// of movement recording so two concurrent sales cannot both pass the
	// sufficiency check.
	FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*StockLot, error)

	// FindByProduct returns all lots for a product ordered by expiry date
	// ascending. Destroyed lots are excluded unless includeDestroyed is set.
	FindByProduct(ctx context.Context, pharmacyID, productID uuid.UUID, includeDestroyed bool) ([]StockLot, error)

	// FindByProductAndNumber finds a lot by its number within a product
	FindByProductAndNumber(ctx context.Context, pharmacyID, productID uuid.UUID, lotNumber string) (*StockLot, error)

	// FindAll returns all lots for a pharmacy
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]StockLot, error)

	// FindExpiringBefore returns non-destroyed lots with stock whose expiry
	// date falls before the given cutoff
	FindExpiringBefore(ctx context.Context, pharmacyID uuid.UUID, cutoff time.Time) ([]StockLot, error)

	// Save creates or updates a lot
	Save(ctx context.Context, lot *StockLot) error

	// SaveWithVersion saves with optimistic locking; returns
	// shared.ErrConcurrencyConflict when the stored version moved on
	SaveWithVersion(ctx context.Context, lot *StockLot) error
}

// StockMovementRepository is the append-only store for the movement ledger.
// There is deliberately no update or delete: committed movements are audit
// facts.
type StockMovementRepository interface {
	// Append writes a movement record
	Append(ctx context.Context, movement *StockMovement) error

	// FindByProduct returns movements for a product, newest first
	FindByProduct(ctx context.Context, pharmacyID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByLot returns the full movement chain for a lot, oldest first
	FindByLot(ctx context.Context, pharmacyID, lotID uuid.UUID) ([]StockMovement, error)

	// FindAll returns movements for a pharmacy, newest first
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindBetween returns movements recorded in [from, to), oldest first
	FindBetween(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]StockMovement, error)

	// Count counts movements matching the filter
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
