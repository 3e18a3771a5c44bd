package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/prescription"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCreditDueDays is how long a credit sale has until its due date
// unless the deployment configures another window
const DefaultCreditDueDays = 30

// CheckoutService orchestrates a point-of-sale checkout in a single
// transaction: every line is FEFO-allocated and committed as outward sale
// movements, the payer split is computed when an insurer card is
// presented, the amount due lands either on the customer's credit account
// or in the register's open cash session, and a claim is created for the
// insurer share. A lost row-lock race is retried once from the top.
type CheckoutService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	creditDueDays  int
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(txScope TransactionScope) *CheckoutService {
	return &CheckoutService{txScope: txScope, creditDueDays: DefaultCreditDueDays}
}

// SetCreditDueDays overrides the default credit due window in days
func (s *CheckoutService) SetCreditDueDays(days int) {
	if days > 0 {
		s.creditDueDays = days
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Checkout commits a sale. All-or-nothing: a single short line, a blocked
// credit account or a missing cash session rolls back every stock draw.
func (s *CheckoutService) Checkout(ctx context.Context, pharmacyID, operator uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "Checkout requires at least one line")
	}
	if req.PaymentMethod == PayCredit && req.CustomerID == nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Credit sales require a customer")
	}
	if req.UseInsurance && req.CustomerID == nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Insured sales require a customer")
	}

	saleRef := newSaleRef()
	var resp *CheckoutResponse

	operation := func(repos TransactionalRepositories) error {
		var err error
		resp, err = s.checkout(ctx, repos, pharmacyID, operator, saleRef, req)
		return err
	}

	err := s.txScope.Execute(ctx, operation)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		err = s.txScope.Execute(ctx, operation)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *CheckoutService) checkout(ctx context.Context, repos TransactionalRepositories, pharmacyID, operator uuid.UUID, saleRef string, req CheckoutRequest) (*CheckoutResponse, error) {
	now := time.Now()

	productIDs := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := repos.ProductRepo().FindByIDs(ctx, pharmacyID, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]int, len(products))
	for i := range products {
		byID[products[i].ID] = i
	}

	// A referenced prescription is locked, validated and dispensed against
	// in the same transaction as the stock draws it authorizes
	var presc *prescription.Prescription
	var prescVersion int
	prescDirty := false
	if req.PrescriptionID != nil {
		presc, err = repos.PrescriptionRepo().FindByIDForUpdate(ctx, pharmacyID, *req.PrescriptionID)
		if err != nil {
			return nil, err
		}
		if presc.IsExpired(now) {
			return nil, shared.NewDomainError("PRESCRIPTION_EXPIRED", "Prescription validity has lapsed")
		}
		if req.CustomerID != nil && *req.CustomerID != presc.CustomerID {
			return nil, shared.NewDomainError("PRESCRIPTION_MISMATCH", "Prescription belongs to another customer")
		}
		prescVersion = presc.GetVersion()
	}

	total := decimal.Zero
	allocations := make([]AllocationResult, 0, len(req.Lines))

	for _, line := range req.Lines {
		idx, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.ErrNotFound
		}
		product := &products[idx]
		if !product.IsSellable() {
			return nil, shared.NewDomainError("PRODUCT_NOT_SELLABLE", fmt.Sprintf("Product %s cannot be sold", product.CommercialName))
		}
		if product.RequiresPrescription() {
			if presc == nil {
				return nil, shared.NewDomainError("PRESCRIPTION_REQUIRED", fmt.Sprintf("Product %s requires a prescription", product.CommercialName))
			}
			if err := presc.DispenseProduct(line.ProductID, line.Quantity); err != nil {
				return nil, err
			}
			prescDirty = true
		}

		lots, err := repos.LotRepo().FindByProduct(ctx, pharmacyID, line.ProductID, false)
		if err != nil {
			return nil, err
		}
		plan, err := inventory.PlanFEFO(line.ProductID, lots, line.Quantity, now)
		if err != nil {
			return nil, err
		}

		numbers := make(map[uuid.UUID]string, len(lots))
		for i := range lots {
			numbers[lots[i].ID] = lots[i].LotNumber
		}

		allocation := AllocationResult{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.UnitPrice,
			LineTotal: product.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)),
			Draws:     make([]LotDrawResult, 0, len(plan.Lines)),
		}

		// Commit the plan under row locks, lot by lot
		for _, draw := range plan.Lines {
			lot, err := repos.LotRepo().FindByIDForUpdate(ctx, pharmacyID, draw.LotID)
			if err != nil {
				return nil, err
			}
			movement, err := lot.Apply(inventory.MovementOutward, inventory.ReasonSale, draw.Quantity, operator, saleRef, &product.UnitPrice)
			if err != nil {
				return nil, err
			}
			if err := repos.LotRepo().SaveWithVersion(ctx, lot); err != nil {
				return nil, err
			}
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return nil, err
			}
			allocation.Draws = append(allocation.Draws, LotDrawResult{
				LotID:     draw.LotID,
				LotNumber: numbers[draw.LotID],
				Quantity:  draw.Quantity,
			})
		}

		total = total.Add(allocation.LineTotal)
		allocations = append(allocations, allocation)
	}

	if prescDirty {
		if err := repos.PrescriptionRepo().SaveWithVersion(ctx, presc, prescVersion); err != nil {
			return nil, err
		}
	}

	resp := &CheckoutResponse{
		SaleRef:       saleRef,
		Total:         total,
		InsurerShare:  decimal.Zero,
		PatientShare:  total,
		PaymentMethod: req.PaymentMethod,
		Allocations:   allocations,
		SoldAt:        now,
	}

	if req.UseInsurance {
		claimID, err := s.applyInsurance(ctx, repos, pharmacyID, saleRef, *req.CustomerID, total, now, resp)
		if err != nil {
			return nil, err
		}
		resp.ClaimID = claimID
	}

	payerDue := resp.PatientShare

	if req.PaymentMethod == PayCredit {
		account, err := repos.AccountRepo().FindByCustomerForUpdate(ctx, pharmacyID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		dueDate := now.AddDate(0, 0, s.creditDueDays)
		if _, err := account.RecordCreditSale(saleRef, valueobject.NewMoneyXOF(payerDue), dueDate); err != nil {
			return nil, err
		}
		if err := repos.AccountRepo().SaveWithVersion(ctx, account); err != nil {
			return nil, err
		}
		return resp, nil
	}

	// Immediate payment lands in the register's open session
	session, err := repos.SessionRepo().FindOpenByRegisterForUpdate(ctx, pharmacyID, req.Register)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrSessionNotOpen
	}
	if err != nil {
		return nil, err
	}
	if payerDue.IsPositive() {
		if _, err := session.RecordTransaction(cashier.TransactionSale, valueobject.NewMoneyXOF(payerDue), saleRef, req.PaymentMethod, saleRef, operator); err != nil {
			return nil, err
		}
		if err := repos.SessionRepo().SaveWithVersion(ctx, session, session.GetVersion()-1); err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// applyInsurance splits the total with the customer's insurer and books
// the insurer share as a pending claim
func (s *CheckoutService) applyInsurance(ctx context.Context, repos TransactionalRepositories, pharmacyID uuid.UUID, saleRef string, customerID uuid.UUID, total decimal.Decimal, now time.Time, resp *CheckoutResponse) (*uuid.UUID, error) {
	customer, err := repos.CustomerRepo().FindByID(ctx, pharmacyID, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.Affiliation.IsAffiliated() {
		return nil, shared.NewDomainError("NOT_AFFILIATED", "Customer has no insurer affiliation")
	}

	insurer, err := repos.InsurerRepo().FindByID(ctx, pharmacyID, customer.Affiliation.InsurerID)
	if err != nil {
		return nil, err
	}
	if !insurer.IsActive() {
		return nil, shared.NewDomainError("INSURER_SUSPENDED", "Insurer convention is suspended")
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	consumed, err := repos.ClaimRepo().SumInsurerShareForMember(ctx, pharmacyID, insurer.ID, customerID, monthStart, now)
	if err != nil {
		return nil, err
	}

	split, err := insurer.Split(valueobject.NewMoneyXOF(total), consumed)
	if err != nil {
		return nil, err
	}

	resp.InsurerShare = split.InsurerShare
	resp.PatientShare = split.PatientShare

	// An exhausted ceiling leaves nothing to claim
	if !split.InsurerShare.IsPositive() {
		return nil, nil
	}

	claim, err := insurance.NewClaim(pharmacyID, insurer.ID, customerID, customer.Affiliation.MembershipNumber, saleRef, split, now)
	if err != nil {
		return nil, err
	}
	if err := repos.ClaimRepo().Save(ctx, claim); err != nil {
		return nil, err
	}
	return &claim.ID, nil
}

// newSaleRef builds a human-readable unique sale reference
func newSaleRef() string {
	return fmt.Sprintf("VNT-%s-%s", time.Now().Format("20060102"), uuid.NewString()[:8])
}
