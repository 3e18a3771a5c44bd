package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ insurance.InsurerRepository = (*GormInsurerRepository)(nil)
var _ insurance.ClaimRepository = (*GormClaimRepository)(nil)

var insurerSortFields = sortFields("name", "kind", "coverage_rate", "status")
var claimSortFields = sortFields("sold_at", "status", "insurer_share", "total_amount")

// GormInsurerRepository implements InsurerRepository using GORM
type GormInsurerRepository struct {
	db *gorm.DB
}

// NewGormInsurerRepository creates a new GormInsurerRepository
func NewGormInsurerRepository(db *gorm.DB) *GormInsurerRepository {
	return &GormInsurerRepository{db: db}
}

// FindByID finds an insurer by ID within a pharmacy
func (r *GormInsurerRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*insurance.Insurer, error) {
	var insurer insurance.Insurer
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&insurer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &insurer, nil
}

// FindAll lists insurers for a pharmacy
func (r *GormInsurerRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*insurance.Insurer, error) {
	var insurers []*insurance.Insurer
	query := applyListing(r.insurerQuery(ctx, pharmacyID, filter), filter, insurerSortFields)

	if err := query.Find(&insurers).Error; err != nil {
		return nil, err
	}
	return insurers, nil
}

// Save creates or updates an insurer
func (r *GormInsurerRepository) Save(ctx context.Context, insurer *insurance.Insurer) error {
	return r.db.WithContext(ctx).Save(insurer).Error
}

// Count counts insurers matching the filter
func (r *GormInsurerRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.insurerQuery(ctx, pharmacyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInsurerRepository) insurerQuery(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&insurance.Insurer{}).
		Where("pharmacy_id = ?", pharmacyID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// GormClaimRepository implements ClaimRepository using GORM
type GormClaimRepository struct {
	db *gorm.DB
}

// NewGormClaimRepository creates a new GormClaimRepository
func NewGormClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// FindByID finds a claim by ID within a pharmacy
func (r *GormClaimRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*insurance.Claim, error) {
	var claim insurance.Claim
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// FindByInsurerAndStatus lists claims for batch invoicing or settlement
func (r *GormClaimRepository) FindByInsurerAndStatus(ctx context.Context, pharmacyID, insurerID uuid.UUID, status insurance.ClaimStatus, filter shared.Filter) ([]*insurance.Claim, error) {
	query := r.db.WithContext(ctx).
		Model(&insurance.Claim{}).
		Where("pharmacy_id = ? AND insurer_id = ? AND status = ?", pharmacyID, insurerID, status)

	var claims []*insurance.Claim
	if err := applyListing(query, filter, claimSortFields).Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// SumInsurerShareForMember totals the insurer share consumed by a member
// over [from, to), used for monthly ceiling checks
func (r *GormClaimRepository) SumInsurerShareForMember(ctx context.Context, pharmacyID, insurerID, customerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&insurance.Claim{}).
		Select("COALESCE(SUM(insurer_share), 0) as total").
		Where("pharmacy_id = ? AND insurer_id = ? AND customer_id = ? AND sold_at >= ? AND sold_at < ?",
			pharmacyID, insurerID, customerID, from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a claim
func (r *GormClaimRepository) Save(ctx context.Context, claim *insurance.Claim) error {
	return r.db.WithContext(ctx).Save(claim).Error
}

// SaveAll persists a batch of claims, typically a monthly invoice run
func (r *GormClaimRepository) SaveAll(ctx context.Context, claims []*insurance.Claim) error {
	if len(claims) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&claims).Error
}

// Count counts claims matching the filter
func (r *GormClaimRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&insurance.Claim{}).
		Where("pharmacy_id = ?", pharmacyID)

	for key, value := range filter.Filters {
		switch key {
		case "insurer_id":
			query = query.Where("insurer_id = ?", value)
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
