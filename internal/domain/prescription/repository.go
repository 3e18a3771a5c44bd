package prescription

import (
	"context"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PrescriptionRepository persists prescriptions, scoped to a pharmacy
type PrescriptionRepository interface {
	// FindByID loads a prescription with its lines
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*Prescription, error)

	// FindByIDForUpdate is FindByID under a row lock, used when dispensing
	FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*Prescription, error)

	// FindByCustomer lists a customer's prescriptions, newest first
	FindByCustomer(ctx context.Context, pharmacyID, customerID uuid.UUID, filter shared.Filter) ([]*Prescription, error)

	// FindByStatus lists prescriptions in a given state
	FindByStatus(ctx context.Context, pharmacyID uuid.UUID, status Status, filter shared.Filter) ([]*Prescription, error)

	Save(ctx context.Context, p *Prescription) error
	SaveWithVersion(ctx context.Context, p *Prescription, expectedVersion int) error
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
