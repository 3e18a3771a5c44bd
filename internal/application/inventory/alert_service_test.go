package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo is an in-memory catalog.ProductRepository
type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, pharmacyID uuid.UUID, barcode string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.PharmacyID == pharmacyID && p.Barcode == barcode {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0)
	for _, p := range r.products {
		if p.PharmacyID == pharmacyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, pharmacyID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0)
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.PharmacyID == pharmacyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.PharmacyID == pharmacyID {
			n++
		}
	}
	return n, nil
}

func seedProduct(t *testing.T, repo *fakeProductRepo, pharmacyID uuid.UUID, name string, minStock int64) uuid.UUID {
	t.Helper()
	product, err := catalog.NewProduct(pharmacyID, catalog.NewProductParams{
		CommercialName: name,
		UnitPrice:      valueobject.NewMoneyXOFFromInt(1000),
	})
	require.NoError(t, err)
	product.MinStock = minStock
	require.NoError(t, repo.Save(context.Background(), product))
	return product.ID
}

func seedLotWithStock(t *testing.T, repo *fakeLotRepo, pharmacyID, productID uuid.UUID, quantity int64, expiryDays int) {
	t.Helper()
	lot, err := inventory.NewStockLot(pharmacyID, productID, uuid.NewString()[:8], time.Now().AddDate(0, 0, expiryDays), valueobject.ZeroXOF(), "")
	require.NoError(t, err)
	if quantity > 0 {
		_, err = lot.Apply(inventory.MovementInward, inventory.ReasonPurchase, quantity, uuid.New(), "", nil)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Save(context.Background(), lot))
}

func TestAlertService_LowStockAlerts(t *testing.T) {
	ctx := context.Background()
	pharmacyID := uuid.New()

	lotRepo := newFakeLotRepo()
	productRepo := newFakeProductRepo()
	service := NewAlertService(lotRepo, productRepo)

	criticalID := seedProduct(t, productRepo, pharmacyID, "Doliprane 1000", 20)
	warningID := seedProduct(t, productRepo, pharmacyID, "Efferalgan 500", 20)
	okID := seedProduct(t, productRepo, pharmacyID, "Smecta", 20)

	seedLotWithStock(t, lotRepo, pharmacyID, criticalID, 8, 365)
	seedLotWithStock(t, lotRepo, pharmacyID, warningID, 15, 365)
	seedLotWithStock(t, lotRepo, pharmacyID, okID, 25, 365)

	alerts, err := service.LowStockAlerts(ctx, pharmacyID)
	require.NoError(t, err)

	require.Len(t, alerts, 2)
	assert.Equal(t, inventory.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, criticalID, alerts[0].ProductID)
	assert.Equal(t, inventory.SeverityWarning, alerts[1].Severity)
	assert.Equal(t, warningID, alerts[1].ProductID)
}

type fakeNotifier struct {
	calls    int
	lowStock []inventory.LowStockAlert
	expiry   []inventory.ExpiryAlert
}

func (n *fakeNotifier) NotifyAlerts(_ context.Context, _ uuid.UUID, lowStock []inventory.LowStockAlert, expiry []inventory.ExpiryAlert) error {
	n.calls++
	n.lowStock = lowStock
	n.expiry = expiry
	return nil
}

func TestAlertService_DispatchAlerts(t *testing.T) {
	ctx := context.Background()
	pharmacyID := uuid.New()

	lotRepo := newFakeLotRepo()
	productRepo := newFakeProductRepo()
	service := NewAlertService(lotRepo, productRepo)

	t.Run("no notifier configured is a no-op", func(t *testing.T) {
		require.NoError(t, service.DispatchAlerts(ctx, pharmacyID))
	})

	notifier := &fakeNotifier{}
	service.SetNotifier(notifier)

	t.Run("nothing to report skips the notifier", func(t *testing.T) {
		require.NoError(t, service.DispatchAlerts(ctx, pharmacyID))
		assert.Zero(t, notifier.calls)
	})

	t.Run("forwards the current alert digest", func(t *testing.T) {
		lowID := seedProduct(t, productRepo, pharmacyID, "Doliprane 1000", 20)
		seedLotWithStock(t, lotRepo, pharmacyID, lowID, 5, 365)
		expiringID := seedProduct(t, productRepo, pharmacyID, "Augmentin", 0)
		seedLotWithStock(t, lotRepo, pharmacyID, expiringID, 10, 10)

		require.NoError(t, service.DispatchAlerts(ctx, pharmacyID))

		require.Equal(t, 1, notifier.calls)
		require.Len(t, notifier.lowStock, 1)
		assert.Equal(t, lowID, notifier.lowStock[0].ProductID)
		require.Len(t, notifier.expiry, 1)
		assert.Equal(t, expiringID, notifier.expiry[0].ProductID)
	})
}

func TestAlertService_ExpiryAlerts(t *testing.T) {
	ctx := context.Background()
	pharmacyID := uuid.New()

	lotRepo := newFakeLotRepo()
	productRepo := newFakeProductRepo()
	service := NewAlertService(lotRepo, productRepo)

	productID := seedProduct(t, productRepo, pharmacyID, "Augmentin", 0)
	seedLotWithStock(t, lotRepo, pharmacyID, productID, 10, -3)  // already expired
	seedLotWithStock(t, lotRepo, pharmacyID, productID, 10, 10)  // inside 30d horizon
	seedLotWithStock(t, lotRepo, pharmacyID, productID, 10, 200) // far out

	t.Run("default horizon", func(t *testing.T) {
		alerts, err := service.ExpiryAlerts(ctx, pharmacyID, 0)
		require.NoError(t, err)

		require.Len(t, alerts, 2)
		assert.True(t, alerts[0].Expired)
		assert.False(t, alerts[1].Expired)
	})

	t.Run("wider horizon pulls in more lots", func(t *testing.T) {
		alerts, err := service.ExpiryAlerts(ctx, pharmacyID, 365)
		require.NoError(t, err)
		assert.Len(t, alerts, 3)
	})

	t.Run("missing tenant scope", func(t *testing.T) {
		_, err := service.ExpiryAlerts(ctx, uuid.Nil, 0)
		assert.Error(t, err)
	})
}
