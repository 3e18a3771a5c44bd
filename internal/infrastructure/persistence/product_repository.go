package persistence

import (
	"context"
	"errors"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

var productSortFields = sortFields("commercial_name", "dci", "unit_price", "min_stock", "shelf")

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID within a pharmacy
func (r *GormProductRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByBarcode finds a product by barcode within a pharmacy
func (r *GormProductRepository) FindByBarcode(ctx context.Context, pharmacyID uuid.UUID, barcode string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND barcode = ?", pharmacyID, barcode).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products for a pharmacy
func (r *GormProductRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyListing(r.productQuery(ctx, pharmacyID, filter), filter, productSortFields)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, pharmacyID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id IN ?", pharmacyID, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.productQuery(ctx, pharmacyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// productQuery builds the shared WHERE clause for listing and counting
func (r *GormProductRepository) productQuery(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("pharmacy_id = ?", pharmacyID)

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("commercial_name ILIKE ? OR dci ILIKE ?", term, term)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "shelf":
			query = query.Where("shelf = ?", value)
		case "sale_category":
			query = query.Where("sale_category = ?", value)
		case "barcode":
			query = query.Where("barcode = ?", value)
		}
	}

	return query
}
