package persistence

import (
	"context"
	"errors"

	"github.com/asspharma/backend/internal/domain/identity"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ identity.PharmacyRepository = (*GormPharmacyRepository)(nil)
var _ identity.UserRepository = (*GormUserRepository)(nil)

var userSortFields = sortFields("username", "role", "status")

// GormPharmacyRepository implements PharmacyRepository using GORM.
// Pharmacy lookup is the one query in the system that is not itself
// tenant-scoped.
type GormPharmacyRepository struct {
	db *gorm.DB
}

// NewGormPharmacyRepository creates a new GormPharmacyRepository
func NewGormPharmacyRepository(db *gorm.DB) *GormPharmacyRepository {
	return &GormPharmacyRepository{db: db}
}

// FindByID finds a pharmacy by ID
func (r *GormPharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Pharmacy, error) {
	var pharmacy identity.Pharmacy
	if err := r.db.WithContext(ctx).First(&pharmacy, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pharmacy, nil
}

// FindByLicense finds a pharmacy by its ordre des pharmaciens number
func (r *GormPharmacyRepository) FindByLicense(ctx context.Context, licenseNo string) (*identity.Pharmacy, error) {
	var pharmacy identity.Pharmacy
	if err := r.db.WithContext(ctx).First(&pharmacy, "license_no = ?", licenseNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &pharmacy, nil
}

// Save creates or updates a pharmacy
func (r *GormPharmacyRepository) Save(ctx context.Context, pharmacy *identity.Pharmacy) error {
	return r.db.WithContext(ctx).Save(pharmacy).Error
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID within a pharmacy
func (r *GormUserRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username within a pharmacy
func (r *GormUserRepository) FindByUsername(ctx context.Context, pharmacyID uuid.UUID, username string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND username = ?", pharmacyID, username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAll lists users for a pharmacy
func (r *GormUserRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*identity.User, error) {
	var users []*identity.User
	query := applyListing(r.userQuery(ctx, pharmacyID, filter), filter, userSortFields)

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.userQuery(ctx, pharmacyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUserRepository) userQuery(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("pharmacy_id = ?", pharmacyID)

	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}
