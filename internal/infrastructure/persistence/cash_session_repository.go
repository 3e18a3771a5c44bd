package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ cashier.CashSessionRepository = (*GormCashSessionRepository)(nil)

var sessionSortFields = sortFields("opened_at", "closed_at", "register", "status")

// GormCashSessionRepository implements CashSessionRepository using GORM
type GormCashSessionRepository struct {
	db *gorm.DB
}

// NewGormCashSessionRepository creates a new GormCashSessionRepository
func NewGormCashSessionRepository(db *gorm.DB) *GormCashSessionRepository {
	return &GormCashSessionRepository{db: db}
}

// FindByID loads a session with its transactions
func (r *GormCashSessionRepository) FindByID(ctx context.Context, pharmacyID, id uuid.UUID) (*cashier.CashSession, error) {
	var session cashier.CashSession
	if err := r.db.WithContext(ctx).
		Preload("Transactions").
		Where("pharmacy_id = ? AND id = ?", pharmacyID, id).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindOpenByRegister returns the open session for a register
func (r *GormCashSessionRepository) FindOpenByRegister(ctx context.Context, pharmacyID uuid.UUID, register string) (*cashier.CashSession, error) {
	return r.findOpenByRegister(ctx, r.db, pharmacyID, register)
}

// FindOpenByRegisterForUpdate is FindOpenByRegister under a row lock
func (r *GormCashSessionRepository) FindOpenByRegisterForUpdate(ctx context.Context, pharmacyID uuid.UUID, register string) (*cashier.CashSession, error) {
	return r.findOpenByRegister(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), pharmacyID, register)
}

func (r *GormCashSessionRepository) findOpenByRegister(ctx context.Context, db *gorm.DB, pharmacyID uuid.UUID, register string) (*cashier.CashSession, error) {
	var session cashier.CashSession
	if err := db.WithContext(ctx).
		Preload("Transactions").
		Where("pharmacy_id = ? AND register = ? AND status = ?", pharmacyID, register, cashier.SessionOpen).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindAll lists sessions, newest first
func (r *GormCashSessionRepository) FindAll(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*cashier.CashSession, error) {
	var sessions []*cashier.CashSession
	query := applyListing(r.sessionQuery(ctx, pharmacyID, filter), filter, sessionSortFields).
		Preload("Transactions")

	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindClosedBetween lists sessions closed in [from, to), for reports
func (r *GormCashSessionRepository) FindClosedBetween(ctx context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]*cashier.CashSession, error) {
	var sessions []*cashier.CashSession
	if err := r.db.WithContext(ctx).
		Preload("Transactions").
		Where("pharmacy_id = ? AND status = ? AND closed_at >= ? AND closed_at < ?",
			pharmacyID, cashier.SessionClosed, from, to).
		Order("closed_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Save persists a session and its transactions
func (r *GormCashSessionRepository) Save(ctx context.Context, session *cashier.CashSession) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(session).Error
}

// SaveWithVersion persists with an optimistic version check against the
// caller's expected version, then upserts the transactions
func (r *GormCashSessionRepository) SaveWithVersion(ctx context.Context, session *cashier.CashSession, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&cashier.CashSession{}).
		Where("id = ? AND version = ?", session.ID, expectedVersion).
		Updates(map[string]interface{}{
			"closed_by":     session.ClosedBy,
			"closed_at":     session.ClosedAt,
			"counted_float": session.CountedFloat,
			"theoretical":   session.Theoretical,
			"variance":      session.Variance,
			"status":        session.Status,
			"version":       session.Version,
			"updated_at":    session.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if len(session.Transactions) > 0 {
		if err := r.db.WithContext(ctx).Save(&session.Transactions).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of sessions matching the filter
func (r *GormCashSessionRepository) Count(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.sessionQuery(ctx, pharmacyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCashSessionRepository) sessionQuery(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&cashier.CashSession{}).
		Where("pharmacy_id = ?", pharmacyID)

	for key, value := range filter.Filters {
		switch key {
		case "register":
			query = query.Where("register = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "opened_by":
			query = query.Where("opened_by = ?", value)
		}
	}

	return query
}
