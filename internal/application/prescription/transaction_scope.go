package prescription

import (
	"context"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/partner"
	"github.com/asspharma/backend/internal/domain/prescription"
)

// TransactionScope provides transactional access to the repositories of
// the prescription workflow
type TransactionScope interface {
	// Execute runs the given function within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one transaction
type TransactionalRepositories interface {
	PrescriptionRepo() prescription.PrescriptionRepository
	CustomerRepo() partner.CustomerRepository
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs operations without real transactions, for tests
type NoOpTransactionScope struct {
	prescriptionRepo prescription.PrescriptionRepository
	customerRepo     partner.CustomerRepository
	productRepo      catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(
	prescriptionRepo prescription.PrescriptionRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		prescriptionRepo: prescriptionRepo,
		customerRepo:     customerRepo,
		productRepo:      productRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) PrescriptionRepo() prescription.PrescriptionRepository {
	return s.prescriptionRepo
}
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository { return s.customerRepo }
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository   { return s.productRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
