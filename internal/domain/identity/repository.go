package identity

import (
	"context"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PharmacyRepository persists pharmacy tenants. Tenant lookup is the one
// query in the system that is not itself tenant-scoped.
type PharmacyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Pharmacy, error)
	FindByLicense(ctx context.Context, licenseNo string) (*Pharmacy, error)
	Save(ctx context.Context, pharmacy *Pharmacy) error
}

// UserRepository persists staff accounts, scoped to a pharmacy
type UserRepository interface {
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, pharmacyID uuid.UUID, username string) (*User, error)
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*User, error)
	Save(ctx context.Context, user *User) error
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
