package delivery

import (
	"context"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DeliveryRepository persists deliveries, scoped to a pharmacy
type DeliveryRepository interface {
	// FindByID loads a delivery with its lines
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*Delivery, error)

	// FindByIDForUpdate is FindByID under a row lock, used when validating
	FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*Delivery, error)

	// FindBySupplier lists a supplier's deliveries, newest first
	FindBySupplier(ctx context.Context, pharmacyID, supplierID uuid.UUID, filter shared.Filter) ([]*Delivery, error)

	// FindByStatus lists deliveries in a given state
	FindByStatus(ctx context.Context, pharmacyID uuid.UUID, status Status, filter shared.Filter) ([]*Delivery, error)

	Save(ctx context.Context, d *Delivery) error
	SaveWithVersion(ctx context.Context, d *Delivery, expectedVersion int) error
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
