package sales

import (
	"context"
	"time"

	"github.com/asspharma/backend/internal/domain/cashier"
	"github.com/asspharma/backend/internal/domain/catalog"
	"github.com/asspharma/backend/internal/domain/credit"
	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/inventory"
	"github.com/asspharma/backend/internal/domain/partner"
	"github.com/asspharma/backend/internal/domain/prescription"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes backing the checkout tests. They mirror the
// persistence contracts closely enough that the service cannot tell the
// difference; no transactional rollback is simulated, so tests that
// exercise failure paths assert on the error, not on partial state.

type fakeProductRepo struct{ products map[uuid.UUID]*catalog.Product }

func (r *fakeProductRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok || p.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, _ uuid.UUID, _ string) (*catalog.Product, error) {
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
	out := make([]catalog.Product, 0, len(ids))
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

func (r *fakeProductRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

type fakeLotRepo struct{ lots map[uuid.UUID]*inventory.StockLot }

func (r *fakeLotRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*inventory.StockLot, error) {
	lot, ok := r.lots[id]
	if !ok || lot.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

func (r *fakeLotRepo) FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*inventory.StockLot, error) {
	return r.FindByID(ctx, pharmacyID, id)
}

func (r *fakeLotRepo) FindByProduct(_ context.Context, pharmacyID, productID uuid.UUID, includeDestroyed bool) ([]inventory.StockLot, error) {
	out := make([]inventory.StockLot, 0)
	for _, lot := range r.lots {
		if lot.PharmacyID != pharmacyID || lot.ProductID != productID {
			continue
		}
		if !includeDestroyed && lot.Status == inventory.LotStatusDestroyed {
			continue
		}
		out = append(out, *lot)
	}
	return out, nil
}

func (r *fakeLotRepo) FindByProductAndNumber(_ context.Context, _, _ uuid.UUID, _ string) (*inventory.StockLot, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]inventory.StockLot, error) {
	return nil, nil
}

func (r *fakeLotRepo) FindExpiringBefore(_ context.Context, _ uuid.UUID, _ time.Time) ([]inventory.StockLot, error) {
	return nil, nil
}

func (r *fakeLotRepo) Save(_ context.Context, lot *inventory.StockLot) error {
	copied := *lot
	r.lots[lot.ID] = &copied
	return nil
}

func (r *fakeLotRepo) SaveWithVersion(ctx context.Context, lot *inventory.StockLot) error {
	return r.Save(ctx, lot)
}

type fakeMovementRepo struct{ movements []inventory.StockMovement }

func (r *fakeMovementRepo) Append(_ context.Context, m *inventory.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) FindByProduct(_ context.Context, _, _ uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) FindByLot(_ context.Context, _, _ uuid.UUID) ([]inventory.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	return r.movements, nil
}

func (r *fakeMovementRepo) FindBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]inventory.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.movements)), nil
}

type fakeCustomerRepo struct{ customers map[uuid.UUID]*partner.Customer }

func (r *fakeCustomerRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, _ uuid.UUID, _ string) (*partner.Customer, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindByInsurer(_ context.Context, _, _ uuid.UUID, _ shared.Filter) ([]*partner.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]*partner.Customer, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, c *partner.Customer) error {
	copied := *c
	r.customers[c.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

func (r *fakeCustomerRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

type fakeAccountRepo struct{ accounts map[uuid.UUID]*credit.CreditAccount }

func (r *fakeAccountRepo) FindByID(_ context.Context, _, _ uuid.UUID) (*credit.CreditAccount, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindByCustomer(_ context.Context, pharmacyID, customerID uuid.UUID) (*credit.CreditAccount, error) {
	a, ok := r.accounts[customerID]
	if !ok || a.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAccountRepo) FindByCustomerForUpdate(ctx context.Context, pharmacyID, customerID uuid.UUID) (*credit.CreditAccount, error) {
	return r.FindByCustomer(ctx, pharmacyID, customerID)
}

func (r *fakeAccountRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]credit.CreditAccount, error) {
	return nil, nil
}

func (r *fakeAccountRepo) Save(_ context.Context, account *credit.CreditAccount) error {
	copied := *account
	r.accounts[account.CustomerID] = &copied
	return nil
}

func (r *fakeAccountRepo) SaveWithVersion(ctx context.Context, account *credit.CreditAccount) error {
	return r.Save(ctx, account)
}

func (r *fakeAccountRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

type fakeSessionRepo struct{ sessions map[uuid.UUID]*cashier.CashSession }

func (r *fakeSessionRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*cashier.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok || s.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) FindOpenByRegister(_ context.Context, pharmacyID uuid.UUID, register string) (*cashier.CashSession, error) {
	for _, s := range r.sessions {
		if s.PharmacyID == pharmacyID && s.Register == register && s.IsOpen() {
			copied := *s
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSessionRepo) FindOpenByRegisterForUpdate(ctx context.Context, pharmacyID uuid.UUID, register string) (*cashier.CashSession, error) {
	return r.FindOpenByRegister(ctx, pharmacyID, register)
}

func (r *fakeSessionRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]*cashier.CashSession, error) {
	return nil, nil
}

func (r *fakeSessionRepo) FindClosedBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*cashier.CashSession, error) {
	return nil, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *cashier.CashSession) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) SaveWithVersion(ctx context.Context, session *cashier.CashSession, _ int) error {
	return r.Save(ctx, session)
}

func (r *fakeSessionRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

type fakeInsurerRepo struct{ insurers map[uuid.UUID]*insurance.Insurer }

func (r *fakeInsurerRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*insurance.Insurer, error) {
	i, ok := r.insurers[id]
	if !ok || i.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (r *fakeInsurerRepo) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]*insurance.Insurer, error) {
	return nil, nil
}

func (r *fakeInsurerRepo) Save(_ context.Context, i *insurance.Insurer) error {
	copied := *i
	r.insurers[i.ID] = &copied
	return nil
}

func (r *fakeInsurerRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return 0, nil
}

type fakeClaimRepo struct{ claims []*insurance.Claim }

func (r *fakeClaimRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*insurance.Claim, error) {
	for _, c := range r.claims {
		if c.PharmacyID == pharmacyID && c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeClaimRepo) FindByInsurerAndStatus(_ context.Context, pharmacyID, insurerID uuid.UUID, status insurance.ClaimStatus, _ shared.Filter) ([]*insurance.Claim, error) {
	out := make([]*insurance.Claim, 0)
	for _, c := range r.claims {
		if c.PharmacyID == pharmacyID && c.InsurerID == insurerID && c.Status == status {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeClaimRepo) SumInsurerShareForMember(_ context.Context, pharmacyID, insurerID, customerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range r.claims {
		if c.PharmacyID == pharmacyID && c.InsurerID == insurerID && c.CustomerID == customerID && !c.SoldAt.Before(from) && c.SoldAt.Before(to) {
			sum = sum.Add(c.InsurerShare)
		}
	}
	return sum, nil
}

func (r *fakeClaimRepo) Save(_ context.Context, claim *insurance.Claim) error {
	found := false
	for i, c := range r.claims {
		if c.ID == claim.ID {
			copied := *claim
			r.claims[i] = &copied
			found = true
		}
	}
	if !found {
		copied := *claim
		r.claims = append(r.claims, &copied)
	}
	return nil
}

func (r *fakeClaimRepo) SaveAll(ctx context.Context, claims []*insurance.Claim) error {
	for _, c := range claims {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeClaimRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.claims)), nil
}

type fakePrescriptionRepo struct{ prescriptions map[uuid.UUID]*prescription.Prescription }

func (r *fakePrescriptionRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*prescription.Prescription, error) {
	p, ok := r.prescriptions[id]
	if !ok || p.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *p
	copied.Lines = append([]prescription.Line(nil), p.Lines...)
	return &copied, nil
}

func (r *fakePrescriptionRepo) FindByIDForUpdate(ctx context.Context, pharmacyID, id uuid.UUID) (*prescription.Prescription, error) {
	return r.FindByID(ctx, pharmacyID, id)
}

func (r *fakePrescriptionRepo) FindByCustomer(_ context.Context, _, _ uuid.UUID, _ shared.Filter) ([]*prescription.Prescription, error) {
	return nil, nil
}

func (r *fakePrescriptionRepo) FindByStatus(_ context.Context, _ uuid.UUID, _ prescription.Status, _ shared.Filter) ([]*prescription.Prescription, error) {
	return nil, nil
}

func (r *fakePrescriptionRepo) Save(_ context.Context, p *prescription.Prescription) error {
	copied := *p
	copied.Lines = append([]prescription.Line(nil), p.Lines...)
	r.prescriptions[p.ID] = &copied
	return nil
}

func (r *fakePrescriptionRepo) SaveWithVersion(ctx context.Context, p *prescription.Prescription, _ int) error {
	return r.Save(ctx, p)
}

func (r *fakePrescriptionRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.prescriptions)), nil
}
