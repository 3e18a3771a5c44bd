package persistence

import (
	"context"
	"errors"

	"github.com/asspharma/backend/internal/domain/delivery"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ delivery.DeliveryRepository = (*GormDeliveryRepository)(nil)

var deliverySortFields = sortFields("received_at", "validated_at", "slip_number", "status")

// GormDeliveryRepository implements DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID loads a delivery with its lines
func (r *GormDeliveryRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*delivery.Delivery, error) {
	return r.findByID(ctx, r.db, pharmacyID, id)
}

// FindByIDForUpdate is FindByID under a row lock, used when validating
func (r *GormDeliveryRepository) FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*delivery.Delivery, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), pharmacyID, id)
}

func (r *GormDeliveryRepository) findByID(ctx context.Context, db *gorm.DB, pharmacyID, id uuid.UUID) (*delivery.Delivery, error) {
	var d delivery.Delivery
	if err := db.WithContext(ctx).
		Preload("Lines").
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindBySupplier lists a supplier's deliveries, newest first
func (r *GormDeliveryRepository) FindBySupplier(ctx context.Context, pharmacyID, supplierID uuid.UUID, filter shared.Filter) ([]*delivery.Delivery, error) {
	query := r.db.WithContext(ctx).
		Model(&delivery.Delivery{}).
		Preload("Lines").
		Where("pharmacy_id = ? AND supplier_id = ?", pharmacyID, supplierID).
		Order("created_at DESC")

	var deliveries []*delivery.Delivery
	if err := applyPagination(query, filter).Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindByStatus lists deliveries in a given state
func (r *GormDeliveryRepository) FindByStatus(ctx context.Context, pharmacyID uuid.UUID, status delivery.Status, filter shared.Filter) ([]*delivery.Delivery, error) {
	query := r.db.WithContext(ctx).
		Model(&delivery.Delivery{}).
		Preload("Lines").
		Where("pharmacy_id = ? AND status = ?", pharmacyID, status)

	var deliveries []*delivery.Delivery
	if err := applyListing(query, filter, deliverySortFields).Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Save persists a delivery and its lines
func (r *GormDeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(d).Error
}

// SaveWithVersion persists with an optimistic version check, then
// upserts the lines
func (r *GormDeliveryRepository) SaveWithVersion(ctx context.Context, d *delivery.Delivery, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&delivery.Delivery{}).
		Where("id = ? AND version = ?", d.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       d.Status,
			"received_at":  d.ReceivedAt,
			"checked_by":   d.CheckedBy,
			"validated_by": d.ValidatedBy,
			"validated_at": d.ValidatedAt,
			"notes":        d.Notes,
			"version":      d.Version,
			"updated_at":   d.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if len(d.Lines) > 0 {
		if err := r.db.WithContext(ctx).Save(&d.Lines).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts deliveries matching the filter
func (r *GormDeliveryRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&delivery.Delivery{}).
		Where("pharmacy_id = ?", pharmacyID)

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
