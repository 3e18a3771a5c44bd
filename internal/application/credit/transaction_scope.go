package credit

import (
	"context"

	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the credit repositories
type TransactionScope interface {
	// Execute runs the given function within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one transaction.
// PaymentEntry rows are append-only children of the account aggregate and
// are persisted through AccountRepo's association handling.
type TransactionalRepositories interface {
	// AccountRepo returns the credit account repository scoped to the transaction
	AccountRepo() credit.CreditAccountRepository
	// CustomerRepo returns the customer repository scoped to the transaction
	CustomerRepo() partner.CustomerRepository
}

// NoOpTransactionScope runs operations without real transactions, for tests
type NoOpTransactionScope struct {
	accountRepo  credit.CreditAccountRepository
	customerRepo partner.CustomerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(accountRepo credit.CreditAccountRepository, customerRepo partner.CustomerRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{accountRepo: accountRepo, customerRepo: customerRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// AccountRepo returns the credit account repository
func (s *NoOpTransactionScope) AccountRepo() credit.CreditAccountRepository {
	return s.accountRepo
}

// CustomerRepo returns the customer repository
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
