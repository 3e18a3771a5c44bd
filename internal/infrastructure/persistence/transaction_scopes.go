package persistence

import (
	"context"

	appcashier "github.com/asspharma/backend/internal/application/cashier"
	appcredit "github.com/asspharma/backend/internal/application/credit"
	appdelivery "github.com/asspharma/backend/internal/application/delivery"
	appinsurance "github.com/asspharma/backend/internal/application/insurance"
	appinv "github.com/asspharma/backend/internal/application/inventory"
	appprescription "github.com/asspharma/backend/internal/application/prescription"
	appsales "github.com/asspharma/backend/internal/application/sales"
	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/delivery"
	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/partner"
	"github.com/asspharma/backend/internal/domain/prescription"
	"gorm.io/gorm"
)

// gormTxRepositories hands out repositories bound to one transaction.
// A single type satisfies every application package's
// TransactionalRepositories interface: the accessor names line up and
// each workflow only sees the subset it declares.
type gormTxRepositories struct {
	tx *gorm.DB
}

func (r *gormTxRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTxRepositories) LotRepo() inventory.StockLotRepository {
	return NewGormStockLotRepository(r.tx)
}

func (r *gormTxRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTxRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTxRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormTxRepositories) AccountRepo() credit.CreditAccountRepository {
	return NewGormCreditAccountRepository(r.tx)
}

func (r *gormTxRepositories) SessionRepo() cashier.CashSessionRepository {
	return NewGormCashSessionRepository(r.tx)
}

func (r *gormTxRepositories) InsurerRepo() insurance.InsurerRepository {
	return NewGormInsurerRepository(r.tx)
}

func (r *gormTxRepositories) ClaimRepo() insurance.ClaimRepository {
	return NewGormClaimRepository(r.tx)
}

func (r *gormTxRepositories) PrescriptionRepo() prescription.PrescriptionRepository {
	return NewGormPrescriptionRepository(r.tx)
}

func (r *gormTxRepositories) DeliveryRepo() delivery.DeliveryRepository {
	return NewGormDeliveryRepository(r.tx)
}

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// GormCreditTransactionScope implements the credit TransactionScope
type GormCreditTransactionScope struct {
	db *gorm.DB
}

// NewGormCreditTransactionScope creates a new GormCreditTransactionScope
func NewGormCreditTransactionScope(db *gorm.DB) *GormCreditTransactionScope {
	return &GormCreditTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCreditTransactionScope) Execute(ctx context.Context, fn func(repos appcredit.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// GormCashierTransactionScope implements the cashier TransactionScope
type GormCashierTransactionScope struct {
	db *gorm.DB
}

// NewGormCashierTransactionScope creates a new GormCashierTransactionScope
func NewGormCashierTransactionScope(db *gorm.DB) *GormCashierTransactionScope {
	return &GormCashierTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCashierTransactionScope) Execute(ctx context.Context, fn func(repos appcashier.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// GormSalesTransactionScope implements the sales TransactionScope. One
// checkout is exactly one transaction.
type GormSalesTransactionScope struct {
	db *gorm.DB
}

// NewGormSalesTransactionScope creates a new GormSalesTransactionScope
func NewGormSalesTransactionScope(db *gorm.DB) *GormSalesTransactionScope {
	return &GormSalesTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormSalesTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// GormDeliveryTransactionScope implements the delivery TransactionScope
type GormDeliveryTransactionScope struct {
	db *gorm.DB
}

// NewGormDeliveryTransactionScope creates a new GormDeliveryTransactionScope
func NewGormDeliveryTransactionScope(db *gorm.DB) *GormDeliveryTransactionScope {
	return &GormDeliveryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormDeliveryTransactionScope) Execute(ctx context.Context, fn func(repos appdelivery.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// GormPrescriptionTransactionScope implements the prescription TransactionScope
type GormPrescriptionTransactionScope struct {
	db *gorm.DB
}

// NewGormPrescriptionTransactionScope creates a new GormPrescriptionTransactionScope
func NewGormPrescriptionTransactionScope(db *gorm.DB) *GormPrescriptionTransactionScope {
	return &GormPrescriptionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPrescriptionTransactionScope) Execute(ctx context.Context, fn func(repos appprescription.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

// GormInsuranceTransactionScope implements the insurance TransactionScope
type GormInsuranceTransactionScope struct {
	db *gorm.DB
}

// NewGormInsuranceTransactionScope creates a new GormInsuranceTransactionScope
func NewGormInsuranceTransactionScope(db *gorm.DB) *GormInsuranceTransactionScope {
	return &GormInsuranceTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInsuranceTransactionScope) Execute(ctx context.Context, fn func(repos appinsurance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepositories{tx: tx})
	})
}

var (
	_ appinv.TransactionScope          = (*GormInventoryTransactionScope)(nil)
	_ appcredit.TransactionScope       = (*GormCreditTransactionScope)(nil)
	_ appcashier.TransactionScope      = (*GormCashierTransactionScope)(nil)
	_ appsales.TransactionScope        = (*GormSalesTransactionScope)(nil)
	_ appdelivery.TransactionScope     = (*GormDeliveryTransactionScope)(nil)
	_ appprescription.TransactionScope = (*GormPrescriptionTransactionScope)(nil)
	_ appinsurance.TransactionScope    = (*GormInsuranceTransactionScope)(nil)

	_ appinv.TransactionalRepositories          = (*gormTxRepositories)(nil)
	_ appcredit.TransactionalRepositories       = (*gormTxRepositories)(nil)
	_ appcashier.TransactionalRepositories      = (*gormTxRepositories)(nil)
	_ appsales.TransactionalRepositories        = (*gormTxRepositories)(nil)
	_ appdelivery.TransactionalRepositories     = (*gormTxRepositories)(nil)
	_ appprescription.TransactionalRepositories = (*gormTxRepositories)(nil)
	_ appinsurance.TransactionalRepositories    = (*gormTxRepositories)(nil)
)
