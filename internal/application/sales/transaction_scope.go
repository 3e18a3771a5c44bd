package sales

import (
	"context"

	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/partner"
	"github.com/asspharma/backend/internal/domain/prescription"
)

// TransactionScope provides transactional access to every repository a
// checkout touches. One checkout is exactly one transaction: stock draws,
// the cash or credit booking and the insurance claim commit together or
// not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one transaction
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	LotRepo() inventory.StockLotRepository
	MovementRepo() inventory.StockMovementRepository
	CustomerRepo() partner.CustomerRepository
	AccountRepo() credit.CreditAccountRepository
	SessionRepo() cashier.CashSessionRepository
	InsurerRepo() insurance.InsurerRepository
	ClaimRepo() insurance.ClaimRepository
	PrescriptionRepo() prescription.PrescriptionRepository
}

// NoOpTransactionScope runs operations without real transactions, for tests
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	lotRepo      inventory.StockLotRepository
	movementRepo inventory.StockMovementRepository
	customerRepo partner.CustomerRepository
	accountRepo  credit.CreditAccountRepository
	sessionRepo  cashier.CashSessionRepository
	insurerRepo      insurance.InsurerRepository
	claimRepo        insurance.ClaimRepository
	prescriptionRepo prescription.PrescriptionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	lotRepo inventory.StockLotRepository,
	movementRepo inventory.StockMovementRepository,
	customerRepo partner.CustomerRepository,
	accountRepo credit.CreditAccountRepository,
	sessionRepo cashier.CashSessionRepository,
	insurerRepo insurance.InsurerRepository,
	claimRepo insurance.ClaimRepository,
	prescriptionRepo prescription.PrescriptionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:      productRepo,
		lotRepo:          lotRepo,
		movementRepo:     movementRepo,
		customerRepo:     customerRepo,
		accountRepo:      accountRepo,
		sessionRepo:      sessionRepo,
		insurerRepo:      insurerRepo,
		claimRepo:        claimRepo,
		prescriptionRepo: prescriptionRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository         { return s.productRepo }
func (s *NoOpTransactionScope) LotRepo() inventory.StockLotRepository          { return s.lotRepo }
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository { return s.movementRepo }
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository       { return s.customerRepo }
func (s *NoOpTransactionScope) AccountRepo() credit.CreditAccountRepository    { return s.accountRepo }
func (s *NoOpTransactionScope) SessionRepo() cashier.CashSessionRepository     { return s.sessionRepo }
func (s *NoOpTransactionScope) InsurerRepo() insurance.InsurerRepository       { return s.insurerRepo }
func (s *NoOpTransactionScope) ClaimRepo() insurance.ClaimRepository           { return s.claimRepo }
func (s *NoOpTransactionScope) PrescriptionRepo() prescription.PrescriptionRepository {
	return s.prescriptionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
