package insurance

import (
	"context"
	"fmt"
	"time"

	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsuranceService manages insurer conventions and the claim cycle:
// claims pile up at checkout, get batch-invoiced per insurer, then
// settled when the payment arrives
type InsuranceService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInsuranceService creates a new InsuranceService
func NewInsuranceService(txScope TransactionScope) *InsuranceService {
	return &InsuranceService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InsuranceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateInsurer registers a convention with a third-party payer
func (s *InsuranceService) CreateInsurer(ctx context.Context, pharmacyID uuid.UUID, req CreateInsurerRequest) (*InsurerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp *InsurerResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		insurer, err := insurance.NewInsurer(pharmacyID, req.Name, insurance.InsurerKind(req.Kind), req.CoverageRate)
		if err != nil {
			return err
		}
		if req.MonthlyCeiling.IsPositive() {
			if err := insurer.SetCeiling(valueobject.NewMoneyXOF(req.MonthlyCeiling)); err != nil {
				return err
			}
		}
		insurer.ContactName = req.ContactName
		insurer.Phone = req.Phone
		insurer.Email = req.Email
		insurer.Address = req.Address

		if err := repos.InsurerRepo().Save(ctx, insurer); err != nil {
			return err
		}
		resp = ToInsurerResponse(insurer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SuspendInsurer halts coverage under a convention. Checkout refuses the
// card of a suspended insurer.
func (s *InsuranceService) SuspendInsurer(ctx context.Context, pharmacyID, insurerID uuid.UUID) (*InsurerResponse, error) {
	return s.mutateInsurer(ctx, pharmacyID, insurerID, func(i *insurance.Insurer) error {
		i.Suspend()
		return nil
	})
}

// ReinstateInsurer resumes coverage under a suspended convention
func (s *InsuranceService) ReinstateInsurer(ctx context.Context, pharmacyID, insurerID uuid.UUID) (*InsurerResponse, error) {
	return s.mutateInsurer(ctx, pharmacyID, insurerID, func(i *insurance.Insurer) error {
		i.Reinstate()
		return nil
	})
}

// SetCeiling changes the per-member monthly ceiling of a convention
func (s *InsuranceService) SetCeiling(ctx context.Context, pharmacyID, insurerID uuid.UUID, ceiling decimal.Decimal) (*InsurerResponse, error) {
	return s.mutateInsurer(ctx, pharmacyID, insurerID, func(i *insurance.Insurer) error {
		return i.SetCeiling(valueobject.NewMoneyXOF(ceiling))
	})
}

// GetInsurer returns one insurer
func (s *InsuranceService) GetInsurer(ctx context.Context, pharmacyID, insurerID uuid.UUID) (*InsurerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp *InsurerResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		insurer, err := repos.InsurerRepo().FindByID(ctx, pharmacyID, insurerID)
		if err != nil {
			return err
		}
		resp = ToInsurerResponse(insurer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListInsurers lists the pharmacy's conventions
func (s *InsuranceService) ListInsurers(ctx context.Context, pharmacyID uuid.UUID, filter shared.Filter) ([]*InsurerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp []*InsurerResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		insurers, err := repos.InsurerRepo().FindAll(ctx, pharmacyID, filter)
		if err != nil {
			return err
		}
		resp = make([]*InsurerResponse, 0, len(insurers))
		for _, i := range insurers {
			resp = append(resp, ToInsurerResponse(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListClaims lists an insurer's claims in a given state
func (s *InsuranceService) ListClaims(ctx context.Context, pharmacyID, insurerID uuid.UUID, status insurance.ClaimStatus, filter shared.Filter) ([]*ClaimResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp []*ClaimResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		claims, err := repos.ClaimRepo().FindByInsurerAndStatus(ctx, pharmacyID, insurerID, status, filter)
		if err != nil {
			return err
		}
		resp = make([]*ClaimResponse, 0, len(claims))
		for _, c := range claims {
			resp = append(resp, ToClaimResponse(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// BatchInvoice marks every pending claim of an insurer as invoiced under
// one invoice reference. The whole batch commits or none of it does.
func (s *InsuranceService) BatchInvoice(ctx context.Context, pharmacyID, insurerID uuid.UUID) (*InvoiceResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	now := time.Now()
	invoiceRef := fmt.Sprintf("FAC-%s-%s", now.Format("200601"), uuid.NewString()[:8])

	var resp *InvoiceResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.InsurerRepo().FindByID(ctx, pharmacyID, insurerID); err != nil {
			return err
		}

		claims, err := repos.ClaimRepo().FindByInsurerAndStatus(ctx, pharmacyID, insurerID, insurance.ClaimPending, shared.Filter{})
		if err != nil {
			return err
		}
		if len(claims) == 0 {
			return shared.NewDomainError("NOTHING_TO_INVOICE", "Insurer has no pending claims")
		}

		total := decimal.Zero
		for _, claim := range claims {
			if err := claim.MarkInvoiced(invoiceRef, now); err != nil {
				return err
			}
			total = total.Add(claim.InsurerShare)
		}
		if err := repos.ClaimRepo().SaveAll(ctx, claims); err != nil {
			return err
		}

		resp = &InvoiceResponse{
			InvoiceRef: invoiceRef,
			InsurerID:  insurerID,
			ClaimCount: len(claims),
			Total:      total,
			InvoicedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SettleInvoice marks the claims of one invoice as paid
func (s *InsuranceService) SettleInvoice(ctx context.Context, pharmacyID, insurerID uuid.UUID, invoiceRef string) (*SettlementResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	if invoiceRef == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_REF", "Invoice reference is required")
	}

	now := time.Now()
	var resp *SettlementResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiced, err := repos.ClaimRepo().FindByInsurerAndStatus(ctx, pharmacyID, insurerID, insurance.ClaimInvoiced, shared.Filter{})
		if err != nil {
			return err
		}

		claims := make([]*insurance.Claim, 0, len(invoiced))
		total := decimal.Zero
		for _, claim := range invoiced {
			if claim.InvoiceRef != invoiceRef {
				continue
			}
			if err := claim.MarkPaid(now); err != nil {
				return err
			}
			total = total.Add(claim.InsurerShare)
			claims = append(claims, claim)
		}
		if len(claims) == 0 {
			return shared.ErrNotFound
		}
		if err := repos.ClaimRepo().SaveAll(ctx, claims); err != nil {
			return err
		}

		resp = &SettlementResponse{
			InvoiceRef: invoiceRef,
			InsurerID:  insurerID,
			ClaimCount: len(claims),
			Total:      total,
			PaidAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *InsuranceService) mutateInsurer(ctx context.Context, pharmacyID, insurerID uuid.UUID, change func(i *insurance.Insurer) error) (*InsurerResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp *InsurerResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		insurer, err := repos.InsurerRepo().FindByID(ctx, pharmacyID, insurerID)
		if err != nil {
			return err
		}
		if err := change(insurer); err != nil {
			return err
		}
		if err := repos.InsurerRepo().Save(ctx, insurer); err != nil {
			return err
		}
		resp = ToInsurerResponse(insurer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
