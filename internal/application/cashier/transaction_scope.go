package cashier

import (
	"context"

	"github.com/asspharma/backend/internal/domain/cashier"
)

// TransactionScope provides transactional access to the cashier repositories
type TransactionScope interface {
	// Execute runs the given function within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one transaction
type TransactionalRepositories interface {
	// SessionRepo returns the cash session repository scoped to the transaction
	SessionRepo() cashier.CashSessionRepository
}

// NoOpTransactionScope runs operations without real transactions, for tests
type NoOpTransactionScope struct {
	sessionRepo cashier.CashSessionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(sessionRepo cashier.CashSessionRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{sessionRepo: sessionRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SessionRepo returns the cash session repository
func (s *NoOpTransactionScope) SessionRepo() cashier.CashSessionRepository {
	return s.sessionRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
