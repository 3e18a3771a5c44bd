package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asspharma/backend/internal/domain/prescription"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ScanStore stores scanned prescription originals in object storage. The
// database only ever holds the key.
type ScanStore interface {
	// Put uploads a scan and returns nothing; the caller chose the key
	Put(ctx context.Context, key, contentType string, data []byte) error

	// PresignGet returns a time-limited download URL for a stored scan
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// PrescriptionService captures ordonnances, stores their scans and tracks
// dispensing line by line
type PrescriptionService struct {
	txScope        TransactionScope
	scanStore      ScanStore
	eventPublisher shared.EventPublisher
}

// NewPrescriptionService creates a new PrescriptionService
func NewPrescriptionService(txScope TransactionScope, scanStore ScanStore) *PrescriptionService {
	return &PrescriptionService{txScope: txScope, scanStore: scanStore}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PrescriptionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Capture registers a prescription with its lines. Product names are
// snapshotted so the record stays readable if the catalog changes.
func (s *PrescriptionService) Capture(ctx context.Context, pharmacyID uuid.UUID, req CapturePrescriptionRequest) (*PrescriptionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp *PrescriptionResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByID(ctx, pharmacyID, req.CustomerID)
		if err != nil {
			return err
		}
		if !customer.IsActive() {
			return shared.NewDomainError("CUSTOMER_INACTIVE", "Customer is not active")
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

		lines := make([]prescription.LineInput, 0, len(req.Lines))
		for _, line := range req.Lines {
			name, ok := names[line.ProductID]
			if !ok {
				return shared.ErrNotFound
			}
			lines = append(lines, prescription.LineInput{
				ProductID:   line.ProductID,
				ProductName: name,
				Posology:    line.Posology,
				Quantity:    line.Quantity,
			})
		}

		p, err := prescription.NewPrescription(pharmacyID, req.CustomerID, req.PrescriberName, req.IssuedAt, lines)
		if err != nil {
			return err
		}
		p.PrescriberID = req.PrescriberID
		p.Notes = req.Notes
		if req.ValidityDays > 0 {
			expires := req.IssuedAt.AddDate(0, 0, req.ValidityDays)
			p.ExpiresAt = &expires
		}

		if err := repos.PrescriptionRepo().Save(ctx, p); err != nil {
			return err
		}

		s.publishEvents(ctx, p)
		resp = ToPrescriptionResponse(p, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// AttachScan uploads the scanned original and records its storage key
func (s *PrescriptionService) AttachScan(ctx context.Context, pharmacyID, prescriptionID uuid.UUID, contentType string, data []byte) (*PrescriptionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_SCAN", "Scan upload is empty")
	}

	key := fmt.Sprintf("ordonnances/%s/%s", pharmacyID, prescriptionID)
	if err := s.scanStore.Put(ctx, key, contentType, data); err != nil {
		return nil, err
	}

	return s.mutate(ctx, pharmacyID, prescriptionID, func(p *prescription.Prescription) error {
		return p.AttachScan(key)
	})
}

// ScanURL returns a time-limited download URL for the stored scan
func (s *PrescriptionService) ScanURL(ctx context.Context, pharmacyID, prescriptionID uuid.UUID) (string, error) {
	if pharmacyID == uuid.Nil {
		return "", shared.ErrTenantScopeMissing
	}
	var key string
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PrescriptionRepo().FindByID(ctx, pharmacyID, prescriptionID)
		if err != nil {
			return err
		}
		if p.ScanKey == "" {
			return shared.ErrNotFound
		}
		key = p.ScanKey
		return nil
	})
	if err != nil {
		return "", err
	}
	return s.scanStore.PresignGet(ctx, key, 15*time.Minute)
}

// Dispense records quantities handed over against a prescription line. An
// expired prescription cannot be dispensed.
func (s *PrescriptionService) Dispense(ctx context.Context, pharmacyID, prescriptionID uuid.UUID, req DispenseRequest) (*PrescriptionResponse, error) {
	now := time.Now()
	return s.mutate(ctx, pharmacyID, prescriptionID, func(p *prescription.Prescription) error {
		if p.IsExpired(now) {
			return shared.NewDomainError("PRESCRIPTION_EXPIRED", "Prescription validity has lapsed")
		}
		return p.Dispense(req.LineID, req.Quantity)
	})
}

// Cancel withdraws a prescription that will not be served
func (s *PrescriptionService) Cancel(ctx context.Context, pharmacyID, prescriptionID uuid.UUID) (*PrescriptionResponse, error) {
	return s.mutate(ctx, pharmacyID, prescriptionID, func(p *prescription.Prescription) error {
		return p.Cancel()
	})
}

// GetPrescription returns a prescription with its lines
func (s *PrescriptionService) GetPrescription(ctx context.Context, pharmacyID, prescriptionID uuid.UUID) (*PrescriptionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp *PrescriptionResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.PrescriptionRepo().FindByID(ctx, pharmacyID, prescriptionID)
		if err != nil {
			return err
		}
		resp = ToPrescriptionResponse(p, time.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListByCustomer lists a customer's prescriptions, newest first
func (s *PrescriptionService) ListByCustomer(ctx context.Context, pharmacyID, customerID uuid.UUID, filter shared.Filter) ([]*PrescriptionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp []*PrescriptionResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		prescriptions, err := repos.PrescriptionRepo().FindByCustomer(ctx, pharmacyID, customerID, filter)
		if err != nil {
			return err
		}
		now := time.Now()
		resp = make([]*PrescriptionResponse, 0, len(prescriptions))
		for _, p := range prescriptions {
			resp = append(resp, ToPrescriptionResponse(p, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListByStatus lists prescriptions in a given state
func (s *PrescriptionService) ListByStatus(ctx context.Context, pharmacyID uuid.UUID, status prescription.Status, filter shared.Filter) ([]*PrescriptionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	var resp []*PrescriptionResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		prescriptions, err := repos.PrescriptionRepo().FindByStatus(ctx, pharmacyID, status, filter)
		if err != nil {
			return err
		}
		now := time.Now()
		resp = make([]*PrescriptionResponse, 0, len(prescriptions))
		for _, p := range prescriptions {
			resp = append(resp, ToPrescriptionResponse(p, now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// mutate applies a state change under optimistic locking, retrying once on
// a lost race
func (s *PrescriptionService) mutate(ctx context.Context, pharmacyID, prescriptionID uuid.UUID, change func(p *prescription.Prescription) error) (*PrescriptionResponse, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	var resp *PrescriptionResponse
	operation := func(repos TransactionalRepositories) error {
		p, err := repos.PrescriptionRepo().FindByIDForUpdate(ctx, pharmacyID, prescriptionID)
		if err != nil {
			return err
		}
		expectedVersion := p.GetVersion()

		if err := change(p); err != nil {
			return err
		}
		if err := repos.PrescriptionRepo().SaveWithVersion(ctx, p, expectedVersion); err != nil {
			return err
		}
		s.publishEvents(ctx, p)
		resp = ToPrescriptionResponse(p, time.Now())
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

func (s *PrescriptionService) publishEvents(ctx context.Context, p *prescription.Prescription) {
	if s.eventPublisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	p.ClearDomainEvents()
}
