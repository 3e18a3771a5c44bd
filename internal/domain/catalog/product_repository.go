package catalog

import (
	"context"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID within a pharmacy
	FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*Product, error)

	// FindByBarcode finds a product by barcode within a pharmacy
	FindByBarcode(ctx context.Context, pharmacyID uuid.UUID, barcode string) (*Product, error)

	// FindAll finds all products for a pharmacy, optionally filtered by
	// shelf, status or a name/DCI search term
	FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, pharmacyID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Count counts products matching the filter
	Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error)
}
