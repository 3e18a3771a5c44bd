package persistence

import (
	"context"
	"time"

	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)

var movementSortFields = sortFields("recorded_at", "quantity", "reason", "direction")

// GormStockMovementRepository implements the append-only movement ledger
// using GORM. There is no update or delete path: committed movements are
// audit facts, corrections are compensating movements.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append writes a movement record
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByProduct returns movements for a product, newest first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, pharmacyID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("pharmacy_id = ? AND product_id = ?", pharmacyID, productID).
		Order("recorded_at DESC")

	var movements []inventory.StockMovement
	if err := applyPagination(query, filter).Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByLot returns the full movement chain for a lot, oldest first
func (r *GormStockMovementRepository) FindByLot(ctx context.Context, pharmacyID, lotID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND lot_id = ?", pharmacyID, lotID).
		Order("recorded_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAll returns movements for a pharmacy, newest first
func (r *GormStockMovementRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := applyListing(r.movementQuery(ctx, pharmacyID, filter), filter, movementSortFields)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindBetween returns movements recorded in [from, to), oldest first
func (r *GormStockMovementRepository) FindBetween(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND recorded_at >= ? AND recorded_at < ?", pharmacyID, from, to).
		Order("recorded_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormStockMovementRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.movementQuery(ctx, pharmacyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockMovementRepository) movementQuery(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("pharmacy_id = ?", pharmacyID)

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "lot_id":
			query = query.Where("lot_id = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "reason":
			query = query.Where("reason = ?", value)
		case "actor":
			query = query.Where("actor = ?", value)
		}
	}

	return query
}
