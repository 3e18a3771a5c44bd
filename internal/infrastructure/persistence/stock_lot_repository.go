package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ inventory.StockLotRepository = (*GormStockLotRepository)(nil)

var lotSortFields = sortFields("expiry_date", "entry_date", "lot_number", "quantity")

// GormStockLotRepository implements StockLotRepository using GORM
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

// FindByID finds a lot by ID within a pharmacy
func (r *GormStockLotRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*inventory.StockLot, error) {
	return r.findByID(ctx, r.db, pharmacyID, id)
}

// FindByIDForUpdate finds a lot under a row-level write lock. Must run
// inside a transaction for the lock to mean anything.
func (r *GormStockLotRepository) FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*inventory.StockLot, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), pharmacyID, id)
}

func (r *GormStockLotRepository) findByID(ctx context.Context, db *gorm.DB, pharmacyID, id uuid.UUID) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByProduct returns lots for a product ordered by expiry date
// ascending, the order FEFO allocation consumes them in
func (r *GormStockLotRepository) FindByProduct(ctx context.Context, pharmacyID, productID uuid.UUID, includeDestroyed bool) ([]inventory.StockLot, error) {
	query := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND product_id = ?", pharmacyID, productID)
	if !includeDestroyed {
		query = query.Where("status <> ?", inventory.LotStatusDestroyed)
	}

	var lots []inventory.StockLot
	if err := query.Order("expiry_date ASC, entry_date ASC").Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByProductAndNumber finds a lot by its number within a product
func (r *GormStockLotRepository) FindByProductAndNumber(ctx context.Context, pharmacyID, productID uuid.UUID, lotNumber string) (*inventory.StockLot, error) {
	var lot inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND product_id = ? AND lot_number = ?", pharmacyID, productID, lotNumber).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindAll returns all lots for a pharmacy
func (r *GormStockLotRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]inventory.StockLot, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockLot{}).
		Where("pharmacy_id = ?", pharmacyID)

	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "with_stock":
			if value == true {
				query = query.Where("quantity > 0")
			}
		}
	}

	var lots []inventory.StockLot
	if err := applyListing(query, filter, lotSortFields).Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindExpiringBefore returns non-destroyed lots with stock expiring
// before the cutoff
func (r *GormStockLotRepository) FindExpiringBefore(ctx context.Context, pharmacyID uuid.UUID, cutoff time.Time) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND status <> ? AND quantity > 0 AND expiry_date < ?",
			pharmacyID, inventory.LotStatusDestroyed, cutoff).
		Order("expiry_date ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a lot
func (r *GormStockLotRepository) Save(ctx context.Context, lot *inventory.StockLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// SaveWithVersion saves with an optimistic version check. The domain has
// already incremented the version, so the stored row must still hold the
// previous one.
func (r *GormStockLotRepository) SaveWithVersion(ctx context.Context, lot *inventory.StockLot) error {
	result := r.db.WithContext(ctx).
		Model(lot).
		Where("id = ? AND version = ?", lot.ID, lot.Version-1).
		Updates(map[string]interface{}{
			"quantity":   lot.Quantity,
			"status":     lot.Status,
			"version":    lot.Version,
			"updated_at": lot.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
