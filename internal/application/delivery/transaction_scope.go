package delivery

import (
	"context"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/delivery"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories of
// the receiving workflow. Validation crosses into inventory: the lots and
// purchase movements created from a delivery commit with it or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one transaction
type TransactionalRepositories interface {
	DeliveryRepo() delivery.DeliveryRepository
	SupplierRepo() partner.SupplierRepository
	ProductRepo() catalog.ProductRepository
	LotRepo() inventory.StockLotRepository
	MovementRepo() inventory.StockMovementRepository
}

// NoOpTransactionScope runs operations without real transactions, for tests
type NoOpTransactionScope struct {
	deliveryRepo delivery.DeliveryRepository
	supplierRepo partner.SupplierRepository
	productRepo  catalog.ProductRepository
	lotRepo      inventory.StockLotRepository
	movementRepo inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	deliveryRepo delivery.DeliveryRepository,
	supplierRepo partner.SupplierRepository,
	productRepo catalog.ProductRepository,
	lotRepo inventory.StockLotRepository,
	movementRepo inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		deliveryRepo: deliveryRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) DeliveryRepo() delivery.DeliveryRepository      { return s.deliveryRepo }
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository       { return s.supplierRepo }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository         { return s.productRepo }
func (s *NoOpTransactionScope) LotRepo() inventory.StockLotRepository          { return s.lotRepo }
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository { return s.movementRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
