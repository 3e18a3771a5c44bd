package credit

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CreditService handles customer credit operations. Credit sales and
// payments lock the account row for the duration of the transaction so
// concurrent terminals cannot both pass the limit check; a lost optimistic
// race is retried once.
type CreditService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCreditService creates a new CreditService
func NewCreditService(txScope TransactionScope) *CreditService {
	return &CreditService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CreditService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// OpenAccount opens a credit account for a customer. One account per
// customer.
func (s *CreditService) OpenAccount(ctx context.Context, pharmacyID uuid.UUID, req OpenAccountRequest) (*AccountResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp AccountResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, pharmacyID, req.CustomerID)
		if err != nil {
			return err
		}
		if !customer.IsActive() {
			return shared.NewDomainError("CUSTOMER_INACTIVE", "Cannot open credit for an inactive customer")
		}

		existing, err := repos.AccountRepo().FindByCustomer(ctx, pharmacyID, req.CustomerID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ACCOUNT_EXISTS", "Customer already has a credit account")
		}

		account, err := credit.NewCreditAccount(pharmacyID, req.CustomerID, valueobject.NewMoneyXOF(req.CreditLimit))
		if err != nil {
			return err
		}
		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}
		resp = ToAccountResponse(account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordCreditSale books a sale as debt on the customer's account. Fails
// with CREDIT_LIMIT_EXCEEDED when the new balance would pass the limit;
// a balance exactly at the limit is allowed.
func (s *CreditService) RecordCreditSale(ctx context.Context, pharmacyID, operator uuid.UUID, req RecordCreditSaleRequest) (*AccountResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var account *credit.CreditAccount
	operation := func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.AccountRepo().FindByCustomerForUpdate(ctx, pharmacyID, req.CustomerID)
		if err != nil {
			return err
		}

		if _, err := account.RecordCreditSale(req.SaleRef, valueobject.NewMoneyXOF(req.Amount), req.DueDate); err != nil {
			return err
		}
		return repos.AccountRepo().SaveWithVersion(ctx, account)
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)
	resp := ToAccountResponse(account)
	return &resp, nil
}

// RecordPayment applies a payment against the customer's open debts,
// oldest due date first. Overpayment beyond the balance is rejected.
func (s *CreditService) RecordPayment(ctx context.Context, pharmacyID, operator uuid.UUID, req RecordPaymentRequest) (*AccountResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var account *credit.CreditAccount
	operation := func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.AccountRepo().FindByCustomerForUpdate(ctx, pharmacyID, req.CustomerID)
		if err != nil {
			return err
		}

		if _, err := account.ApplyPayment(valueobject.NewMoneyXOF(req.Amount), credit.PaymentMethod(req.Method), req.Reference, operator); err != nil {
			return err
		}
		return repos.AccountRepo().SaveWithVersion(ctx, account)
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, account)
	resp := ToAccountResponse(account)
	return &resp, nil
}

// SetCreditLimit changes the authorized limit. Lowering it below the
// current balance is allowed: the account reads BLOCKED until payments
// bring the balance back down.
func (s *CreditService) SetCreditLimit(ctx context.Context, pharmacyID, customerID uuid.UUID, limit valueobject.Money) (*AccountResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var account *credit.CreditAccount
	operation := func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.AccountRepo().FindByCustomerForUpdate(ctx, pharmacyID, customerID)
		if err != nil {
			return err
		}
		if err := account.SetCreditLimit(limit); err != nil {
			return err
		}
		return repos.AccountRepo().SaveWithVersion(ctx, account)
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return nil, err
	}

	resp := ToAccountResponse(account)
	return &resp, nil
}

// GetStatement returns the account with all debt and payment entries
func (s *CreditService) GetStatement(ctx context.Context, pharmacyID, customerID uuid.UUID) (*StatementResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var statement StatementResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.AccountRepo().FindByCustomer(ctx, pharmacyID, customerID)
		if err != nil {
			return err
		}
		statement = ToStatementResponse(account, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &statement, nil
}

// ListAccounts returns all credit accounts with derived figures
func (s *CreditService) ListAccounts(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]AccountResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var responses []AccountResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		accounts, err := repos.AccountRepo().FindAll(ctx, pharmacyID, filter)
		if err != nil {
			return err
		}
		responses = make([]AccountResponse, 0, len(accounts))
		for i := range accounts {
			responses = append(responses, ToAccountResponse(&accounts[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *CreditService) executeWithRetry(ctx context.Context, operation func(repos TransactionalRepositories) error) error {
	err := s.txScope.Execute(ctx, operation)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		err = s.txScope.Execute(ctx, operation)
	}
	return err
}

func (s *CreditService) publishEvents(ctx context.Context, account *credit.CreditAccount) {
	if s.eventPublisher == nil || account == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, account.GetDomainEvents()...)
	account.ClearDomainEvents()
}
