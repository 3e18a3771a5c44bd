package insurance

import (
	"context"
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInsurerRepo struct{ insurers map[uuid.UUID]*insurance.Insurer }

func (r *fakeInsurerRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*insurance.Insurer, error) {
	i, ok := r.insurers[id]
	if !ok || i.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (r *fakeInsurerRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]*insurance.Insurer, error) {
	out := make([]*insurance.Insurer, 0)
	for _, i := range r.insurers {
		if i.PharmacyID == pharmacyID {
			copied := *i
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeInsurerRepo) Save(_ context.Context, i *insurance.Insurer) error {
	copied := *i
	r.insurers[i.ID] = &copied
	return nil
}

func (r *fakeInsurerRepo) Count(_ context.Context, _ uuid.UUID, _ shared.Filter) (int64, error) {
	return int64(len(r.insurers)), nil
}

type fakeClaimRepo struct{ claims map[uuid.UUID]*insurance.Claim }

func (r *fakeClaimRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*insurance.Claim, error) {
	c, ok := r.claims[id]
	if !ok || c.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
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
	copied := *claim
	r.claims[claim.ID] = &copied
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

type insuranceFixture struct {
	pharmacyID uuid.UUID
	insurers   *fakeInsurerRepo
	claims     *fakeClaimRepo
	service    *InsuranceService
}

func newInsuranceFixture() *insuranceFixture {
	f := &insuranceFixture{
		pharmacyID: uuid.New(),
		insurers:   &fakeInsurerRepo{insurers: make(map[uuid.UUID]*insurance.Insurer)},
		claims:     &fakeClaimRepo{claims: make(map[uuid.UUID]*insurance.Claim)},
	}
	f.service = NewInsuranceService(NewNoOpTransactionScope(f.insurers, f.claims))
	return f
}

func (f *insuranceFixture) addClaim(t *testing.T, insurerID uuid.UUID, insurerShare int64) *insurance.Claim {
	t.Helper()
	total := decimal.NewFromInt(insurerShare).Mul(decimal.NewFromInt(2))
	claim, err := insurance.NewClaim(f.pharmacyID, insurerID, uuid.New(), "IPM-001", "VNT-20250110-abcd1234", insurance.CoverageSplit{
		Total:        total,
		InsurerShare: decimal.NewFromInt(insurerShare),
		PatientShare: total.Sub(decimal.NewFromInt(insurerShare)),
	}, time.Now())
	require.NoError(t, err)
	claim.ClearDomainEvents()
	require.NoError(t, f.claims.Save(context.Background(), claim))
	return claim
}

func TestInsuranceService_CreateInsurer(t *testing.T) {
	ctx := context.Background()
	f := newInsuranceFixture()

	resp, err := f.service.CreateInsurer(ctx, f.pharmacyID, CreateInsurerRequest{
		Name:           "Mutuelle des Enseignants",
		Kind:           "MUTUELLE",
		CoverageRate:   decimal.NewFromInt(70),
		MonthlyCeiling: decimal.NewFromInt(50000),
		ContactName:    "Cheikh Gueye",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.True(t, resp.CoverageRate.Equal(decimal.NewFromInt(70)))
	assert.True(t, resp.MonthlyCeiling.Equal(decimal.NewFromInt(50000)))

	t.Run("rate above 100 rejected", func(t *testing.T) {
		_, err := f.service.CreateInsurer(ctx, f.pharmacyID, CreateInsurerRequest{
			Name:         "Bad convention",
			Kind:         "ASSURANCE",
			CoverageRate: decimal.NewFromInt(120),
		})
		require.Error(t, err)
	})

	t.Run("suspend and reinstate", func(t *testing.T) {
		suspended, err := f.service.SuspendInsurer(ctx, f.pharmacyID, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, "SUSPENDED", suspended.Status)

		reinstated, err := f.service.ReinstateInsurer(ctx, f.pharmacyID, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", reinstated.Status)
	})
}

func TestInsuranceService_BatchInvoiceAndSettle(t *testing.T) {
	ctx := context.Background()
	f := newInsuranceFixture()

	insurer, err := insurance.NewInsurer(f.pharmacyID, "IPM Port Autonome", insurance.KindEntreprise, decimal.NewFromInt(80))
	require.NoError(t, err)
	require.NoError(t, f.insurers.Save(ctx, insurer))

	f.addClaim(t, insurer.ID, 8000)
	f.addClaim(t, insurer.ID, 12000)
	f.addClaim(t, insurer.ID, 5000)

	invoice, err := f.service.BatchInvoice(ctx, f.pharmacyID, insurer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, invoice.ClaimCount)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(25000)))
	assert.Contains(t, invoice.InvoiceRef, "FAC-")

	t.Run("invoiced claims left the pending queue", func(t *testing.T) {
		pending, err := f.service.ListClaims(ctx, f.pharmacyID, insurer.ID, insurance.ClaimPending, shared.Filter{})
		require.NoError(t, err)
		assert.Empty(t, pending)

		invoiced, err := f.service.ListClaims(ctx, f.pharmacyID, insurer.ID, insurance.ClaimInvoiced, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, invoiced, 3)
		for _, c := range invoiced {
			assert.Equal(t, invoice.InvoiceRef, c.InvoiceRef)
		}
	})

	t.Run("nothing left to invoice", func(t *testing.T) {
		_, err := f.service.BatchInvoice(ctx, f.pharmacyID, insurer.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOTHING_TO_INVOICE", domainErr.Code)
	})

	t.Run("settling pays exactly the invoice's claims", func(t *testing.T) {
		// A claim invoiced later under another reference must not be touched
		late := f.addClaim(t, insurer.ID, 4000)
		_, err := f.service.BatchInvoice(ctx, f.pharmacyID, insurer.ID)
		require.NoError(t, err)

		settlement, err := f.service.SettleInvoice(ctx, f.pharmacyID, insurer.ID, invoice.InvoiceRef)
		require.NoError(t, err)
		assert.Equal(t, 3, settlement.ClaimCount)
		assert.True(t, settlement.Total.Equal(decimal.NewFromInt(25000)))

		remaining, err := f.service.ListClaims(ctx, f.pharmacyID, insurer.ID, insurance.ClaimInvoiced, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, late.ID, remaining[0].ID)
	})

	t.Run("unknown invoice reference", func(t *testing.T) {
		_, err := f.service.SettleInvoice(ctx, f.pharmacyID, insurer.ID, "FAC-000000-ffffffff")
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
