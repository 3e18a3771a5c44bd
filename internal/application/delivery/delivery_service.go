package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/asspharma/backend/internal/domain/delivery"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DeliveryService drives the receiving workflow: announce, receive, check
// line by line, then validate. Validation is the moment stock enters the
// pharmacy, so it creates the lots and purchase movements in the same
// transaction as the delivery state change.
type DeliveryService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(txScope TransactionScope) *DeliveryService {
	return &DeliveryService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DeliveryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Announce registers a delivery announced on a supplier's slip
func (s *DeliveryService) Announce(ctx context.Context, pharmacyID uuid.UUID, req AnnounceDeliveryRequest) (*DeliveryResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp *DeliveryResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := repos.SupplierRepo().FindByID(ctx, pharmacyID, req.SupplierID)
		if err != nil {
			return err
		}
		if !supplier.IsActive() {
			return shared.NewDomainError("SUPPLIER_INACTIVE", "Supplier is not active")
		}

		productIDs := make([]uuid.UUID, 0, len(req.Lines))
		for _, line := range req.Lines {
			productIDs = append(productIDs, line.ProductID)
		}
		products, err := repos.ProductRepo().FindByIDs(ctx, pharmacyID, productIDs)
		if err != nil {
			return err
		}
		names := make(map[uuid.UUID]string, len(products))
		for i := range products {
			names[products[i].ID] = products[i].CommercialName
		}

		lines := make([]delivery.LineInput, 0, len(req.Lines))
		for _, line := range req.Lines {
			name, ok := names[line.ProductID]
			if !ok {
				return shared.ErrNotFound
			}
			lines = append(lines, delivery.LineInput{
				ProductID:   line.ProductID,
				ProductName: name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			})
		}

		d, err := delivery.NewDelivery(pharmacyID, req.SupplierID, req.SlipNumber, req.OrderNumber, lines)
		if err != nil {
			return err
		}
		d.Carrier = req.Carrier
		d.Courier = req.Courier

		if err := repos.DeliveryRepo().Save(ctx, d); err != nil {
			return err
		}

		resp = ToDeliveryResponse(d)
		resp.SupplierName = supplier.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Receive records physical arrival of the parcels
func (s *DeliveryService) Receive(ctx context.Context, pharmacyID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	return s.mutate(ctx, pharmacyID, deliveryID, func(d *delivery.Delivery) error {
		return d.MarkReceived(time.Now())
	})
}

// CheckLine records the counted quantity and lot details for one line
func (s *DeliveryService) CheckLine(ctx context.Context, pharmacyID, deliveryID uuid.UUID, req CheckLineRequest) (*DeliveryResponse, error) {
	return s.mutate(ctx, pharmacyID, deliveryID, func(d *delivery.Delivery) error {
		return d.CheckLine(req.LineID, req.DeliveredQuantity, req.LotNumber, req.ExpiryDate)
	})
}

// FinishCheck closes the counting phase
func (s *DeliveryService) FinishCheck(ctx context.Context, pharmacyID, deliveryID, checker uuid.UUID) (*DeliveryResponse, error) {
	return s.mutate(ctx, pharmacyID, deliveryID, func(d *delivery.Delivery) error {
		return d.FinishCheck(checker)
	})
}

// Dispute flags a checked delivery with discrepancies for supplier
// follow-up
func (s *DeliveryService) Dispute(ctx context.Context, pharmacyID, deliveryID uuid.UUID, req DisputeRequest) (*DeliveryResponse, error) {
	return s.mutate(ctx, pharmacyID, deliveryID, func(d *delivery.Delivery) error {
		return d.Dispute(req.Reason)
	})
}

// Validate finalizes the delivery and brings its stock in: one lot and one
// purchase movement per delivered line, committed with the state change.
// Lines whose lot number already exists for the product top up the
// existing lot instead of creating a duplicate.
func (s *DeliveryService) Validate(ctx context.Context, pharmacyID, deliveryID, validator uuid.UUID) (*DeliveryResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp *DeliveryResponse
	operation := func(repos TransactionalRepositories) error {
		d, err := repos.DeliveryRepo().FindByIDForUpdate(ctx, pharmacyID, deliveryID)
		if err != nil {
			return err
		}
		expectedVersion := d.GetVersion()

		received, err := d.Validate(validator, time.Now())
		if err != nil {
			return err
		}

		supplierName := ""
		if supplier, err := repos.SupplierRepo().FindByID(ctx, pharmacyID, d.SupplierID); err == nil {
			supplierName = supplier.Name
		}

		for _, line := range received {
			if err := s.bringStockIn(ctx, repos, pharmacyID, validator, d.SlipNumber, supplierName, line); err != nil {
				return err
			}
		}

		if err := repos.DeliveryRepo().SaveWithVersion(ctx, d, expectedVersion); err != nil {
			return err
		}

		s.publishEvents(ctx, d)
		resp = ToDeliveryResponse(d)
		resp.SupplierName = supplierName
		return nil
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

// bringStockIn turns one delivered line into lot stock
func (s *DeliveryService) bringStockIn(ctx context.Context, repos TransactionalRepositories, pharmacyID, actor uuid.UUID, slipNumber, supplierName string, line delivery.ReceivedLine) error {
	lot, err := repos.LotRepo().FindByProductAndNumber(ctx, pharmacyID, line.ProductID, line.LotNumber)
	if errors.Is(err, shared.ErrNotFound) {
		lot, err = inventory.NewStockLot(pharmacyID, line.ProductID, line.LotNumber, *line.ExpiryDate, valueobject.NewMoneyXOF(line.UnitPrice), supplierName)
	}
	if err != nil {
		return err
	}

	movement, err := lot.Apply(inventory.MovementInward, inventory.ReasonPurchase, line.Quantity, actor, slipNumber, &line.UnitPrice)
	if err != nil {
		return err
	}
	if err := repos.LotRepo().Save(ctx, lot); err != nil {
		return err
	}
	if err := repos.MovementRepo().Append(ctx, movement); err != nil {
		return err
	}
	s.publishEvents(ctx, lot)
	return nil
}

// GetDelivery returns a delivery with its lines
func (s *DeliveryService) GetDelivery(ctx context.Context, pharmacyID, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp *DeliveryResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		d, err := repos.DeliveryRepo().FindByID(ctx, pharmacyID, deliveryID)
		if err != nil {
			return err
		}
		resp = ToDeliveryResponse(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListByStatus lists deliveries in a given state
func (s *DeliveryService) ListByStatus(ctx context.Context, pharmacyID uuid.UUID, status delivery.Status, filter shared.Filter) ([]*DeliveryResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp []*DeliveryResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		deliveries, err := repos.DeliveryRepo().FindByStatus(ctx, pharmacyID, status, filter)
		if err != nil {
			return err
		}
		resp = make([]*DeliveryResponse, 0, len(deliveries))
		for _, d := range deliveries {
			resp = append(resp, ToDeliveryResponse(d))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListBySupplier lists a supplier's deliveries, newest first
func (s *DeliveryService) ListBySupplier(ctx context.Context, pharmacyID, supplierID uuid.UUID, filter shared.Filter) ([]*DeliveryResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp []*DeliveryResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		deliveries, err := repos.DeliveryRepo().FindBySupplier(ctx, pharmacyID, supplierID, filter)
		if err != nil {
			return err
		}
		resp = make([]*DeliveryResponse, 0, len(deliveries))
		for _, d := range deliveries {
			resp = append(resp, ToDeliveryResponse(d))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// mutate applies a state change to a delivery under optimistic locking,
// retrying once on a lost race
func (s *DeliveryService) mutate(ctx context.Context, pharmacyID, deliveryID uuid.UUID, change func(d *delivery.Delivery) error) (*DeliveryResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp *DeliveryResponse
	operation := func(repos TransactionalRepositories) error {
		d, err := repos.DeliveryRepo().FindByIDForUpdate(ctx, pharmacyID, deliveryID)
		if err != nil {
			return err
		}
		expectedVersion := d.GetVersion()

		if err := change(d); err != nil {
			return err
		}
		if err := repos.DeliveryRepo().SaveWithVersion(ctx, d, expectedVersion); err != nil {
			return err
		}
		s.publishEvents(ctx, d)
		resp = ToDeliveryResponse(d)
		return nil
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

func (s *DeliveryService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}
