package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InventoryService handles lot and movement operations. Every mutation runs
// in one transaction with a row lock on the touched lot; on a concurrency
// conflict the whole read-check-write cycle is retried once before the
// error surfaces.
type InventoryService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(txScope TransactionScope) *InventoryService {
	return &InventoryService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateLot registers a new lot and records its initial inward movement
func (s *InventoryService) CreateLot(ctx context.Context, pharmacyID, actor uuid.UUID, req CreateLotRequest) (*LotResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	reason := inventory.ReasonPurchase
	if req.Reason != "" {
		reason = inventory.MovementReason(req.Reason)
	}

	var created *inventory.StockLot
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.LotRepo().FindByProductAndNumber(ctx, pharmacyID, req.ProductID, req.LotNumber)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("DUPLICATE_LOT", "A lot with this number already exists for the product")
		}

		lot, err := inventory.NewStockLot(pharmacyID, req.ProductID, req.LotNumber, req.ExpiryDate, valueobject.NewMoneyXOF(req.PurchasePrice), req.Supplier)
		if err != nil {
			return err
		}

		movement, err := lot.Apply(inventory.MovementInward, reason, req.Quantity, actor, req.Comment, &req.PurchasePrice)
		if err != nil {
			return err
		}

		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}

		created = lot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, created)
	resp := ToLotResponse(created, time.Now())
	return &resp, nil
}

// RecordMovement applies an entry or exit on a lot. The lot row is locked
// for the duration of the transaction so the sufficiency check and the
// write are one atomic step.
func (s *InventoryService) RecordMovement(ctx context.Context, pharmacyID, actor uuid.UUID, req RecordMovementRequest) (*MovementResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var recorded *inventory.StockMovement
	var lot *inventory.StockLot

	operation := func(repos TransactionalRepositories) error {
		var err error
		lot, err = repos.LotRepo().FindByIDForUpdate(ctx, pharmacyID, req.LotID)
		if err != nil {
			return err
		}

		recorded, err = lot.Apply(
			inventory.MovementDirection(req.Direction),
			inventory.MovementReason(req.Reason),
			req.Quantity,
			actor,
			req.Comment,
			req.UnitPrice,
		)
		if err != nil {
			return err
		}

		if err := repos.LotRepo().SaveWithVersion(ctx, lot); err != nil {
			return err
		}
		return repos.MovementRepo().Append(ctx, recorded)
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, lot)
	resp := ToMovementResponse(recorded)
	return &resp, nil
}

// DestroyLot removes a lot from sellable stock via a destruction movement
func (s *InventoryService) DestroyLot(ctx context.Context, pharmacyID, actor, lotID uuid.UUID, comment string) error {
	if pharmacyID == uuid.Nil {
		return shared.ErrTenantScopeMissing
	}

	var lot *inventory.StockLot
	operation := func(repos TransactionalRepositories) error {
		var err error
		lot, err = repos.LotRepo().FindByIDForUpdate(ctx, pharmacyID, lotID)
		if err != nil {
			return err
		}

		movement, err := lot.Destroy(actor, comment)
		if err != nil {
			return err
		}

		if err := repos.LotRepo().SaveWithVersion(ctx, lot); err != nil {
			return err
		}
		if movement != nil {
			return repos.MovementRepo().Append(ctx, movement)
		}
		return nil
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return err
	}

	s.publishEvents(ctx, lot)
	return nil
}

// WriteOffExpired pulls an expired lot off the shelf: the remaining
// quantity leaves through an EXPIRY movement and the stored status is
// flipped to EXPIRED.
func (s *InventoryService) WriteOffExpired(ctx context.Context, pharmacyID, actor, lotID uuid.UUID, comment string) error {
	if pharmacyID == uuid.Nil {
		return shared.ErrTenantScopeMissing
	}

	var lot *inventory.StockLot
	operation := func(repos TransactionalRepositories) error {
		var err error
		lot, err = repos.LotRepo().FindByIDForUpdate(ctx, pharmacyID, lotID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := lot.MarkExpired(now); err != nil {
			return err
		}

		if lot.Quantity > 0 {
			movement, err := lot.Apply(inventory.MovementOutward, inventory.ReasonExpiry, lot.Quantity, actor, comment, nil)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}
		}

		return repos.LotRepo().SaveWithVersion(ctx, lot)
	}

	if err := s.executeWithRetry(ctx, operation); err != nil {
		return err
	}

	s.publishEvents(ctx, lot)
	return nil
}

// GetLot returns a lot with its read-time effective status
func (s *InventoryService) GetLot(ctx context.Context, pharmacyID, lotID uuid.UUID) (*LotResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp LotResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lot, err := repos.LotRepo().FindByID(ctx, pharmacyID, lotID)
		if err != nil {
			return err
		}
		resp = ToLotResponse(lot, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListLots returns the lots of a product, expiry ascending
func (s *InventoryService) ListLots(ctx context.Context, pharmacyID, productID uuid.UUID, includeDestroyed bool) ([]LotResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var responses []LotResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindByProduct(ctx, pharmacyID, productID, includeDestroyed)
		if err != nil {
			return err
		}
		now := time.Now()
		responses = make([]LotResponse, 0, len(lots))
		for i := range lots {
			responses = append(responses, ToLotResponse(&lots[i], now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// GetStockLevel sums the allocatable quantity of a product across lots
func (s *InventoryService) GetStockLevel(ctx context.Context, pharmacyID, productID uuid.UUID) (*StockLevelResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	resp := &StockLevelResponse{ProductID: productID}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindByProduct(ctx, pharmacyID, productID, false)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range lots {
			if lots[i].IsAllocatable(now) {
				resp.TotalQuantity += lots[i].Quantity
				resp.LotCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// PreviewAllocation plans a FEFO draw without committing anything
func (s *InventoryService) PreviewAllocation(ctx context.Context, pharmacyID, productID uuid.UUID, quantity int64) (*AllocationPreviewResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp *AllocationPreviewResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindByProduct(ctx, pharmacyID, productID, false)
		if err != nil {
			return err
		}

		plan, err := inventory.PlanFEFO(productID, lots, quantity, time.Now())
		if err != nil {
			return err
		}

		numbers := make(map[uuid.UUID]string, len(lots))
		for i := range lots {
			numbers[lots[i].ID] = lots[i].LotNumber
		}

		resp = &AllocationPreviewResponse{
			ProductID: productID,
			Requested: plan.Requested,
			Lines:     make([]AllocationLineResponse, 0, len(plan.Lines)),
		}
		for _, line := range plan.Lines {
			resp.Lines = append(resp.Lines, AllocationLineResponse{
				LotID:     line.LotID,
				LotNumber: numbers[line.LotID],
				Quantity:  line.Quantity,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListMovements returns the movement ledger for a product, newest first
func (s *InventoryService) ListMovements(ctx context.Context, pharmacyID, productID uuid.UUID, filter shared.Filter) ([]MovementResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var responses []MovementResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements, err := repos.MovementRepo().FindByProduct(ctx, pharmacyID, productID, filter)
		if err != nil {
			return err
		}
		responses = make([]MovementResponse, 0, len(movements))
		for i := range movements {
			responses = append(responses, ToMovementResponse(&movements[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// ListLotMovements returns the full chain for one lot, oldest first
func (s *InventoryService) ListLotMovements(ctx context.Context, pharmacyID, lotID uuid.UUID) ([]MovementResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var responses []MovementResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements, err := repos.MovementRepo().FindByLot(ctx, pharmacyID, lotID)
		if err != nil {
			return err
		}
		responses = make([]MovementResponse, 0, len(movements))
		for i := range movements {
			responses = append(responses, ToMovementResponse(&movements[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// executeWithRetry runs the operation in a transaction and retries it once
// when the optimistic version check lost a race. The retry re-reads under
// the row lock, so the second attempt either wins or fails on business
// grounds.
func (s *InventoryService) executeWithRetry(ctx context.Context, operation func(repos TransactionalRepositories) error) error {
	err := s.txScope.Execute(ctx, operation)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		err = s.txScope.Execute(ctx, operation)
	}
	return err
}

func (s *InventoryService) publishEvents(ctx context.Context, lot *inventory.StockLot) {
	if s.eventPublisher == nil || lot == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, lot.GetDomainEvents()...)
	lot.ClearDomainEvents()
}
