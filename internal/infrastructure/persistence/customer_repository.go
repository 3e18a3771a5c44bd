package persistence

import (
	"context"
	"errors"

	"github.com/asspharma/backend/internal/domain/partner"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

var customerSortFields = sortFields("last_name", "first_name", "phone", "status")

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID within a pharmacy
func (r *GormCustomerRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByPhone finds a customer by phone within a pharmacy
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, pharmacyID uuid.UUID, phone string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND phone = ?", pharmacyID, phone).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByInsurer lists customers affiliated to an insurer
func (r *GormCustomerRepository) FindByInsurer(ctx context.Context, pharmacyID, insurerID uuid.UUID, filter shared.Filter) ([]*partner.Customer, error) {
	query := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("pharmacy_id = ? AND insurance_insurer_id = ?", pharmacyID, insurerID)

	var customers []*partner.Customer
	if err := applyListing(query, filter, customerSortFields).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindAll lists customers for a pharmacy
func (r *GormCustomerRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*partner.Customer, error) {
	var customers []*partner.Customer
	query := applyListing(r.customerQuery(ctx, pharmacyID, filter), filter, customerSortFields)

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete soft-deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, pharmacyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		Delete(&partner.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.customerQuery(ctx, pharmacyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCustomerRepository) customerQuery(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("pharmacy_id = ?", pharmacyID)

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone LIKE ?", term, term, term)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "insurer_id":
			query = query.Where("insurance_insurer_id = ?", value)
		}
	}

	return query
}
