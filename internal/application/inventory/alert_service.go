package inventory

import (
	"context"
	"time"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultExpiryHorizonDays is how far ahead expiry alerts look when the
// caller does not override the horizon
const DefaultExpiryHorizonDays = 30

// AlertService derives stock alerts from the ledger on demand. Nothing is
// persisted: every call reflects the lots as they are at that instant, so
// alerts can never go stale.
type AlertService struct {
	lotRepo     inventory.StockLotRepository
	productRepo catalog.ProductRepository
	horizonDays int
	notifier    Notifier
}

// NewAlertService creates an AlertService with the default expiry horizon
func NewAlertService(lotRepo inventory.StockLotRepository, productRepo catalog.ProductRepository) *AlertService {
	return &AlertService{
		lotRepo:     lotRepo,
		productRepo: productRepo,
		horizonDays: DefaultExpiryHorizonDays,
	}
}

// SetExpiryHorizon overrides the default look-ahead window in days
func (s *AlertService) SetExpiryHorizon(days int) {
	if days > 0 {
		s.horizonDays = days
	}
}

// SetNotifier plugs in an out-of-band alert channel
func (s *AlertService) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// DispatchAlerts derives the current alert state and hands it to the
// configured notifier. Without a notifier, or with nothing to report, it
// is a no-op.
func (s *AlertService) DispatchAlerts(ctx context.Context, pharmacyID uuid.UUID) error {
	if s.notifier == nil {
		return nil
	}
	lowStock, err := s.LowStockAlerts(ctx, pharmacyID)
	if err != nil {
		return err
	}
	expiry, err := s.ExpiryAlerts(ctx, pharmacyID, 0)
	if err != nil {
		return err
	}
	if len(lowStock) == 0 && len(expiry) == 0 {
		return nil
	}
	return s.notifier.NotifyAlerts(ctx, pharmacyID, lowStock, expiry)
}

// LowStockAlerts returns products under their minimum-stock threshold,
// critical first
func (s *AlertService) LowStockAlerts(ctx context.Context, pharmacyID uuid.UUID) ([]inventory.LowStockAlert, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}

	products, err := s.productRepo.FindAll(ctx, pharmacyID, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return nil, err
	}
	lots, err := s.lotRepo.FindAll(ctx, pharmacyID, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return nil, err
	}

	return inventory.DeriveLowStockAlerts(products, lots, time.Now()), nil
}

// ExpiryAlerts returns lots expired or expiring within the horizon,
// expired first then soonest first. A zero horizonDays falls back to the
// configured default.
func (s *AlertService) ExpiryAlerts(ctx context.Context, pharmacyID uuid.UUID, horizonDays int) ([]inventory.ExpiryAlert, error) {
	if pharmacyID == uuid.Nil {
		return nil, shared.ErrTenantScopeMissing
	}
	if horizonDays <= 0 {
		horizonDays = s.horizonDays
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, horizonDays)
	lots, err := s.lotRepo.FindExpiringBefore(ctx, pharmacyID, cutoff)
	if err != nil {
		return nil, err
	}

	return inventory.DeriveExpiryAlerts(lots, horizonDays, now), nil
}
