package persistence

import (
	"context"
	"errors"

	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ credit.CreditAccountRepository = (*GormCreditAccountRepository)(nil)

var accountSortFields = sortFields("credit_limit")

// GormCreditAccountRepository implements CreditAccountRepository using
// GORM. Accounts load with their debt and payment entries so balance and
// status always derive from the complete ledger.
type GormCreditAccountRepository struct {
	db *gorm.DB
}

// NewGormCreditAccountRepository creates a new GormCreditAccountRepository
func NewGormCreditAccountRepository(db *gorm.DB) *GormCreditAccountRepository {
	return &GormCreditAccountRepository{db: db}
}

// FindByID finds an account by ID within a pharmacy
func (r *GormCreditAccountRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*credit.CreditAccount, error) {
	var account credit.CreditAccount
	if err := r.db.WithContext(ctx).
		Preload("Debts").
		Preload("Payments").
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByCustomer finds the account for a customer
func (r *GormCreditAccountRepository) FindByCustomer(ctx context.Context, pharmacyID, customerID uuid.UUID) (*credit.CreditAccount, error) {
	return r.findByCustomer(ctx, r.db, pharmacyID, customerID)
}

// FindByCustomerForUpdate loads the account under a row-level write lock.
// The lock covers the account row; debts and payments only ever change
// through it.
func (r *GormCreditAccountRepository) FindByCustomerForUpdate(ctx context.Context, pharmacyID, customerID uuid.UUID) (*credit.CreditAccount, error) {
	return r.findByCustomer(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), pharmacyID, customerID)
}

func (r *GormCreditAccountRepository) findByCustomer(ctx context.Context, db *gorm.DB, pharmacyID, customerID uuid.UUID) (*credit.CreditAccount, error) {
	var account credit.CreditAccount
	if err := db.WithContext(ctx).
		Preload("Debts").
		Preload("Payments").
		Where("pharmacy_id = ? AND customer_id = ?", pharmacyID, customerID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll returns all accounts for a pharmacy
func (r *GormCreditAccountRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]credit.CreditAccount, error) {
	query := r.db.WithContext(ctx).
		Model(&credit.CreditAccount{}).
		Preload("Debts").
		Preload("Payments").
		Where("pharmacy_id = ?", pharmacyID)

	var accounts []credit.CreditAccount
	if err := applyListing(query, filter, accountSortFields).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save persists the account together with its debt and payment entries
func (r *GormCreditAccountRepository) Save(ctx context.Context, account *credit.CreditAccount) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(account).Error
}

// SaveWithVersion saves with an optimistic version check on the account
// row, then upserts the ledger entries. The domain has already
// incremented the version.
func (r *GormCreditAccountRepository) SaveWithVersion(ctx context.Context, account *credit.CreditAccount) error {
	result := r.db.WithContext(ctx).
		Model(&credit.CreditAccount{}).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(map[string]interface{}{
			"credit_limit": account.CreditLimit,
			"version":      account.Version,
			"updated_at":   account.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if len(account.Debts) > 0 {
		if err := r.db.WithContext(ctx).Save(&account.Debts).Error; err != nil {
			return err
		}
	}
	if len(account.Payments) > 0 {
		if err := r.db.WithContext(ctx).Save(&account.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts accounts matching the filter
func (r *GormCreditAccountRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&credit.CreditAccount{}).
		Where("pharmacy_id = ?", pharmacyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
