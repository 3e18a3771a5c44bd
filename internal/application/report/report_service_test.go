package report

import (
	"context"
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions []*cashier.CashSession
}

func (r *fakeSessionRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*cashier.CashSession, error) {
	for _, s := range r.sessions {
		if s.PharmacyID == pharmacyID && s.ID == id {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSessionRepo) FindOpenByRegister(_ context.Context, pharmacyID uuid.UUID, register string) (*cashier.CashSession, error) {
	for _, s := range r.sessions {
		if s.PharmacyID == pharmacyID && s.Register == register && s.IsOpen() {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSessionRepo) FindOpenByRegisterForUpdate(ctx context.Context, pharmacyID uuid.UUID, register string) (*cashier.CashSession, error) {
	return r.FindOpenByRegister(ctx, pharmacyID, register)
}

func (r *fakeSessionRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]*cashier.CashSession, error) {
	var out []*cashier.CashSession
	for _, s := range r.sessions {
		if s.PharmacyID == pharmacyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) FindClosedBetween(_ context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]*cashier.CashSession, error) {
	var out []*cashier.CashSession
	for _, s := range r.sessions {
		if s.PharmacyID == pharmacyID && s.ClosedAt != nil && !s.ClosedAt.Before(from) && s.ClosedAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *cashier.CashSession) error {
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *fakeSessionRepo) SaveWithVersion(ctx context.Context, session *cashier.CashSession, _ int) error {
	return r.Save(ctx, session)
}

func (r *fakeSessionRepo) Count(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.PharmacyID == pharmacyID {
			n++
		}
	}
	return n, nil
}

type fakeMovementRepo struct {
	movements []inventory.StockMovement
}

func (r *fakeMovementRepo) Append(_ context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) FindByProduct(_ context.Context, pharmacyID, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.PharmacyID == pharmacyID && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) FindByLot(_ context.Context, pharmacyID, lotID uuid.UUID) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.PharmacyID == pharmacyID && m.LotID != nil && *m.LotID == lotID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.PharmacyID == pharmacyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) FindBetween(_ context.Context, pharmacyID uuid.UUID, from, to time.Time) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.movements {
		if m.PharmacyID == pharmacyID && !m.RecordedAt.Before(from) && m.RecordedAt.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) Count(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, m := range r.movements {
		if m.PharmacyID == pharmacyID {
			n++
		}
	}
	return n, nil
}

type fakeLotRepo struct {
	lots []inventory.StockLot
}

func (r *fakeLotRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*inventory.StockLot, error) {
	for i := range r.lots {
		if r.lots[i].PharmacyID == pharmacyID && r.lots[i].ID == id {
			cp := r.lots[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*inventory.StockLot, error) {
	return r.FindByID(ctx, pharmacyID, id)
}

func (r *fakeLotRepo) FindByProduct(_ context.Context, pharmacyID, productID uuid.UUID, includeDestroyed bool) ([]inventory.StockLot, error) {
	var out []inventory.StockLot
	for _, l := range r.lots {
		if l.PharmacyID == pharmacyID && l.ProductID == productID {
			if !includeDestroyed && l.Status == inventory.LotStatusDestroyed {
				continue
			}
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) FindByProductAndNumber(_ context.Context, pharmacyID, productID uuid.UUID, lotNumber string) (*inventory.StockLot, error) {
	for i := range r.lots {
		if r.lots[i].PharmacyID == pharmacyID && r.lots[i].ProductID == productID && r.lots[i].LotNumber == lotNumber {
			cp := r.lots[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]inventory.StockLot, error) {
	var out []inventory.StockLot
	for _, l := range r.lots {
		if l.PharmacyID == pharmacyID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) FindExpiringBefore(_ context.Context, pharmacyID uuid.UUID, cutoff time.Time) ([]inventory.StockLot, error) {
	var out []inventory.StockLot
	for _, l := range r.lots {
		if l.PharmacyID == pharmacyID && l.Status != inventory.LotStatusDestroyed && l.Quantity > 0 && l.ExpiryDate.Before(cutoff) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) Save(_ context.Context, lot *inventory.StockLot) error {
	r.lots = append(r.lots, *lot)
	return nil
}

func (r *fakeLotRepo) SaveWithVersion(ctx context.Context, lot *inventory.StockLot) error {
	return r.Save(ctx, lot)
}

type fakeProductRepo struct {
	products []catalog.Product
}

func (r *fakeProductRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*catalog.Product, error) {
	for i := range r.products {
		if r.products[i].PharmacyID == pharmacyID && r.products[i].ID == id {
			cp := r.products[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, pharmacyID uuid.UUID, barcode string) (*catalog.Product, error) {
	for i := range r.products {
		if r.products[i].PharmacyID == pharmacyID && r.products[i].Barcode == barcode {
			cp := r.products[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.PharmacyID == pharmacyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, pharmacyID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		for i := range r.products {
			if r.products[i].PharmacyID == pharmacyID && r.products[i].ID == id {
				out = append(out, r.products[i])
			}
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products = append(r.products, *product)
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

type fakeAccountRepo struct {
	accounts []credit.CreditAccount
}

func (r *fakeAccountRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*credit.CreditAccount, error) {
	for i := range r.accounts {
		if r.accounts[i].PharmacyID == pharmacyID && r.accounts[i].ID == id {
			cp := r.accounts[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindByCustomer(_ context.Context, pharmacyID, customerID uuid.UUID) (*credit.CreditAccount, error) {
	for i := range r.accounts {
		if r.accounts[i].PharmacyID == pharmacyID && r.accounts[i].CustomerID == customerID {
			cp := r.accounts[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindByCustomerForUpdate(ctx context.Context, pharmacyID, customerID uuid.UUID) (*credit.CreditAccount, error) {
	return r.FindByCustomer(ctx, pharmacyID, customerID)
}

func (r *fakeAccountRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]credit.CreditAccount, error) {
	var out []credit.CreditAccount
	for _, a := range r.accounts {
		if a.PharmacyID == pharmacyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Save(_ context.Context, account *credit.CreditAccount) error {
	r.accounts = append(r.accounts, *account)
	return nil
}

func (r *fakeAccountRepo) SaveWithVersion(ctx context.Context, account *credit.CreditAccount) error {
	return r.Save(ctx, account)
}

func (r *fakeAccountRepo) Count(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.PharmacyID == pharmacyID {
			n++
		}
	}
	return n, nil
}

type reportFixture struct {
	pharmacyID   uuid.UUID
	actor        uuid.UUID
	sessionRepo  *fakeSessionRepo
	movementRepo *fakeMovementRepo
	lotRepo      *fakeLotRepo
	productRepo  *fakeProductRepo
	accountRepo  *fakeAccountRepo
	service      *ReportService
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		pharmacyID:   uuid.New(),
		actor:        uuid.New(),
		sessionRepo:  &fakeSessionRepo{},
		movementRepo: &fakeMovementRepo{},
		lotRepo:      &fakeLotRepo{},
		productRepo:  &fakeProductRepo{},
		accountRepo:  &fakeAccountRepo{},
	}
	f.service = NewReportService(f.sessionRepo, f.movementRepo, f.lotRepo, f.productRepo, f.accountRepo)
	return f
}

// addClosedSession opens a session, records the given sale amounts and
// closes it balanced plus the given variance
func (f *reportFixture) addClosedSession(t *testing.T, register string, sales map[string]int64, variance int64) {
	t.Helper()
	session, err := cashier.OpenSession(f.pharmacyID, register, valueobject.NewMoneyXOFFromInt(10000), f.actor)
	require.NoError(t, err)

	for method, amount := range sales {
		_, err = session.RecordTransaction(cashier.TransactionSale, valueobject.NewMoneyXOFFromInt(amount), "vente", method, "TICKET-1", f.actor)
		require.NoError(t, err)
	}

	counted := session.TheoreticalBalance().Add(decimal.NewFromInt(variance))
	_, err = session.Close(valueobject.NewMoneyXOF(counted), f.actor)
	require.NoError(t, err)

	require.NoError(t, f.sessionRepo.Save(context.Background(), session))
}

func (f *reportFixture) addMovement(t *testing.T, direction inventory.MovementDirection, reason inventory.MovementReason, qty int64, at time.Time) {
	t.Helper()
	lotID := uuid.New()
	movement := &inventory.StockMovement{
		PharmacyID: f.pharmacyID,
		ProductID:  uuid.New(),
		LotID:      &lotID,
		Direction:  direction,
		Reason:     reason,
		Quantity:   qty,
		Actor:      f.actor,
		RecordedAt: at,
	}
	require.NoError(t, f.movementRepo.Append(context.Background(), movement))
}

func TestReportService_DailySummary(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("takings grouped by payment method", func(t *testing.T) {
		f := newReportFixture()
		f.addClosedSession(t, "caisse-1", map[string]int64{"especes": 15000, "wave": 8000}, 0)
		f.addClosedSession(t, "caisse-2", map[string]int64{"especes": 5000}, -500)

		summary, err := f.service.DailySummary(ctx, f.pharmacyID, now)
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(28000).Equal(summary.SalesTotal), "got %s", summary.SalesTotal)
		assert.True(t, decimal.NewFromInt(20000).Equal(summary.SalesByMethod["especes"]))
		assert.True(t, decimal.NewFromInt(8000).Equal(summary.SalesByMethod["wave"]))
		assert.Equal(t, 3, summary.SalesCount)
		assert.Equal(t, 2, summary.SessionsOpened)
		assert.Equal(t, 2, summary.SessionsClosed)
		assert.True(t, decimal.NewFromInt(-500).Equal(summary.VarianceTotal), "got %s", summary.VarianceTotal)
		require.Len(t, summary.Sessions, 2)
	})

	t.Run("stock flow from the movement ledger", func(t *testing.T) {
		f := newReportFixture()
		f.addMovement(t, inventory.MovementInward, inventory.ReasonPurchase, 100, now)
		f.addMovement(t, inventory.MovementOutward, inventory.ReasonSale, 7, now)
		f.addMovement(t, inventory.MovementOutward, inventory.ReasonSale, 3, now)
		f.addMovement(t, inventory.MovementOutward, inventory.ReasonDestruction, 12, now)
		// yesterday's movement stays out of today's figures
		f.addMovement(t, inventory.MovementOutward, inventory.ReasonSale, 99, now.AddDate(0, 0, -1))

		summary, err := f.service.DailySummary(ctx, f.pharmacyID, now)
		require.NoError(t, err)

		assert.EqualValues(t, 100, summary.UnitsReceived)
		assert.EqualValues(t, 10, summary.UnitsSold)
		assert.EqualValues(t, 12, summary.UnitsRemoved)
		assert.Equal(t, 4, summary.MovementCount)
	})

	t.Run("credit exposure and alert counts", func(t *testing.T) {
		f := newReportFixture()

		account, err := credit.NewCreditAccount(f.pharmacyID, uuid.New(), valueobject.NewMoneyXOFFromInt(100000))
		require.NoError(t, err)
		_, err = account.RecordCreditSale("TICKET-42", valueobject.NewMoneyXOFFromInt(30000), now.AddDate(0, 0, 30))
		require.NoError(t, err)
		require.NoError(t, f.accountRepo.Save(ctx, account))

		product, err := catalog.NewProduct(f.pharmacyID, catalog.NewProductParams{
			CommercialName: "Paracetamol 500mg",
			UnitPrice:      valueobject.NewMoneyXOFFromInt(1000),
			MinStock:       50,
		})
		require.NoError(t, err)
		require.NoError(t, f.productRepo.Save(ctx, product))

		// 10 on hand against a threshold of 50: critical low stock
		fresh, err := inventory.NewStockLot(f.pharmacyID, product.ID, "LOT-A", now.AddDate(1, 0, 0), valueobject.NewMoneyXOFFromInt(600), "Laborex Senegal")
		require.NoError(t, err)
		_, err = fresh.Apply(inventory.MovementInward, inventory.ReasonPurchase, 10, f.actor, "", nil)
		require.NoError(t, err)
		require.NoError(t, f.lotRepo.Save(ctx, fresh))

		// lot expiring within the default horizon
		closeLot, err := inventory.NewStockLot(f.pharmacyID, product.ID, "LOT-B", now.AddDate(0, 0, 20), valueobject.NewMoneyXOFFromInt(600), "Laborex Senegal")
		require.NoError(t, err)
		_, err = closeLot.Apply(inventory.MovementInward, inventory.ReasonPurchase, 5, f.actor, "", nil)
		require.NoError(t, err)
		require.NoError(t, f.lotRepo.Save(ctx, closeLot))

		summary, err := f.service.DailySummary(ctx, f.pharmacyID, now)
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(30000).Equal(summary.OutstandingCredit), "got %s", summary.OutstandingCredit)
		assert.Equal(t, 1, summary.LowStockAlerts)
		assert.Equal(t, 1, summary.ExpiringLots)
		assert.Equal(t, 0, summary.ExpiredLots)
	})

	t.Run("tenant scope required", func(t *testing.T) {
		f := newReportFixture()
		_, err := f.service.DailySummary(ctx, uuid.Nil, now)
		require.ErrorIs(t, err, shared.ErrTenantScopeMissing)
	})
}
