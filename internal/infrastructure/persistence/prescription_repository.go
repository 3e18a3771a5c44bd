package persistence

import (
	"context"
	"errors"

	"github.com/asspharma/backend/internal/domain/prescription"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ prescription.PrescriptionRepository = (*GormPrescriptionRepository)(nil)

var prescriptionSortFields = sortFields("issued_at", "expires_at", "status", "prescriber_name")

// GormPrescriptionRepository implements PrescriptionRepository using GORM
type GormPrescriptionRepository struct {
	db *gorm.DB
}

// NewGormPrescriptionRepository creates a new GormPrescriptionRepository
func NewGormPrescriptionRepository(db *gorm.DB) *GormPrescriptionRepository {
	return &GormPrescriptionRepository{db: db}
}

// FindByID loads a prescription with its lines
func (r *GormPrescriptionRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*prescription.Prescription, error) {
	return r.findByID(ctx, r.db, pharmacyID, id)
}

// FindByIDForUpdate is FindByID under a row lock, used when dispensing
func (r *GormPrescriptionRepository) FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*prescription.Prescription, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), pharmacyID, id)
}

func (r *GormPrescriptionRepository) findByID(ctx context.Context, db *gorm.DB, pharmacyID, id uuid.UUID) (*prescription.Prescription, error) {
	var p prescription.Prescription
	if err := db.WithContext(ctx).
		Preload("Lines").
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByCustomer lists a customer's prescriptions, newest first
func (r *GormPrescriptionRepository) FindByCustomer(ctx context.Context, pharmacyID, customerID uuid.UUID, filter shared.Filter) ([]*prescription.Prescription, error) {
	query := r.db.WithContext(ctx).
		Model(&prescription.Prescription{}).
		Preload("Lines").
		Where("pharmacy_id = ? AND customer_id = ?", pharmacyID, customerID).
		Order("issued_at DESC")

	var prescriptions []*prescription.Prescription
	if err := applyPagination(query, filter).Find(&prescriptions).Error; err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// FindByStatus lists prescriptions in a given state
func (r *GormPrescriptionRepository) FindByStatus(ctx context.Context, pharmacyID uuid.UUID, status prescription.Status, filter shared.Filter) ([]*prescription.Prescription, error) {
	query := r.db.WithContext(ctx).
		Model(&prescription.Prescription{}).
		Preload("Lines").
		Where("pharmacy_id = ? AND status = ?", pharmacyID, status)

	var prescriptions []*prescription.Prescription
	if err := applyListing(query, filter, prescriptionSortFields).Find(&prescriptions).Error; err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// Save persists a prescription and its lines
func (r *GormPrescriptionRepository) Save(ctx context.Context, p *prescription.Prescription) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(p).Error
}

// SaveWithVersion persists with an optimistic version check, then
// upserts the lines
func (r *GormPrescriptionRepository) SaveWithVersion(ctx context.Context, p *prescription.Prescription, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&prescription.Prescription{}).
		Where("id = ? AND version = ?", p.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     p.Status,
			"scan_key":   p.ScanKey,
			"notes":      p.Notes,
			"version":    p.Version,
			"updated_at": p.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if len(p.Lines) > 0 {
		if err := r.db.WithContext(ctx).Save(&p.Lines).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts prescriptions matching the filter
func (r *GormPrescriptionRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&prescription.Prescription{}).
		Where("pharmacy_id = ?", pharmacyID)

	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
