package insurance

import (
	"context"

	"github.com/asspharma/backend/internal/domain/insurance"
)

// TransactionScope provides transactional access to the insurance
// repositories. Batch invoicing marks many claims in one transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories of one transaction
type TransactionalRepositories interface {
	InsurerRepo() insurance.InsurerRepository
	ClaimRepo() insurance.ClaimRepository
}

// NoOpTransactionScope runs operations without real transactions, for tests
type NoOpTransactionScope struct {
	insurerRepo insurance.InsurerRepository
	claimRepo   insurance.ClaimRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(insurerRepo insurance.InsurerRepository, claimRepo insurance.ClaimRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{insurerRepo: insurerRepo, claimRepo: claimRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) InsurerRepo() insurance.InsurerRepository { return s.insurerRepo }
func (s *NoOpTransactionScope) ClaimRepo() insurance.ClaimRepository     { return s.claimRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
