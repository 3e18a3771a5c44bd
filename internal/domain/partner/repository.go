package partner

import (
	"context"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository persists customers, scoped to a pharmacy
type CustomerRepository interface {
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*Customer, error)
	FindByPhone(ctx context.Context, pharmacyID uuid.UUID, phone string) (*Customer, error)
	FindByInsurer(ctx context.Context, pharmacyID, insurerID uuid.UUID, filter shared.Filter) ([]*Customer, error)
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, pharmacyID, id uuid.UUID) error
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}

// SupplierRepository persists suppliers, scoped to a pharmacy
type SupplierRepository interface {
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*Supplier, error)
	FindByName(ctx context.Context, pharmacyID uuid.UUID, name string) (*Supplier, error)
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, pharmacyID, id uuid.UUID) error
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
