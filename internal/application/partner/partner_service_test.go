package partner

import (
	"context"
	"testing"
	"time"

	"github.com/asspharma/backend/internal/domain/insurance"
	"github.com/asspharma/backend/internal/domain/partner"
	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*partner.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*partner.Customer)}
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, pharmacyID uuid.UUID, phone string) (*partner.Customer, error) {
	for _, c := range r.customers {
		if c.PharmacyID == pharmacyID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindByInsurer(_ context.Context, pharmacyID, insurerID uuid.UUID, _ shared.Filter) ([]*partner.Customer, error) {
	var out []*partner.Customer
	for _, c := range r.customers {
		if c.PharmacyID == pharmacyID && c.Affiliation.InsurerID == insurerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]*partner.Customer, error) {
	var out []*partner.Customer
	for _, c := range r.customers {
		if c.PharmacyID == pharmacyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	cp := *customer
	r.customers[customer.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) Count(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, c := range r.customers {
		if c.PharmacyID == pharmacyID {
			n++
		}
	}
	return n, nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*partner.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *fakeSupplierRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*partner.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok || s.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) FindByName(_ context.Context, pharmacyID uuid.UUID, name string) (*partner.Supplier, error) {
	for _, s := range r.suppliers {
		if s.PharmacyID == pharmacyID && s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSupplierRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]*partner.Supplier, error) {
	var out []*partner.Supplier
	for _, s := range r.suppliers {
		if s.PharmacyID == pharmacyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSupplierRepo) Save(_ context.Context, supplier *partner.Supplier) error {
	cp := *supplier
	r.suppliers[supplier.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) Count(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, s := range r.suppliers {
		if s.PharmacyID == pharmacyID {
			n++
		}
	}
	return n, nil
}

type fakeInsurerRepo struct {
	insurers map[uuid.UUID]*insurance.Insurer
}

func newFakeInsurerRepo() *fakeInsurerRepo {
	return &fakeInsurerRepo{insurers: make(map[uuid.UUID]*insurance.Insurer)}
}

func (r *fakeInsurerRepo) FindByID(_ context.Context, pharmacyID, id uuid.UUID) (*insurance.Insurer, error) {
	i, ok := r.insurers[id]
	if !ok || i.PharmacyID != pharmacyID {
		return nil, shared.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *fakeInsurerRepo) FindAll(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) ([]*insurance.Insurer, error) {
	var out []*insurance.Insurer
	for _, i := range r.insurers {
		if i.PharmacyID == pharmacyID {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInsurerRepo) Save(_ context.Context, insurer *insurance.Insurer) error {
	cp := *insurer
	r.insurers[insurer.ID] = &cp
	return nil
}

func (r *fakeInsurerRepo) Count(_ context.Context, pharmacyID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, i := range r.insurers {
		if i.PharmacyID == pharmacyID {
			n++
		}
	}
	return n, nil
}

type partnerFixture struct {
	pharmacyID   uuid.UUID
	customerRepo *fakeCustomerRepo
	supplierRepo *fakeSupplierRepo
	insurerRepo  *fakeInsurerRepo
	service      *PartnerService
}

func newPartnerFixture() *partnerFixture {
	f := &partnerFixture{
		pharmacyID:   uuid.New(),
		customerRepo: newFakeCustomerRepo(),
		supplierRepo: newFakeSupplierRepo(),
		insurerRepo:  newFakeInsurerRepo(),
	}
	f.service = NewPartnerService(f.customerRepo, f.supplierRepo, f.insurerRepo)
	return f
}

func (f *partnerFixture) addInsurer(t *testing.T, name string, rate int64) uuid.UUID {
	t.Helper()
	insurer, err := insurance.NewInsurer(f.pharmacyID, name, insurance.KindEntreprise, decimal.NewFromInt(rate))
	require.NoError(t, err)
	require.NoError(t, f.insurerRepo.Save(context.Background(), insurer))
	return insurer.ID
}

func TestPartnerService_Customers(t *testing.T) {
	ctx := context.Background()

	t.Run("create and look up by phone", func(t *testing.T) {
		f := newPartnerFixture()
		birth := time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC)

		created, err := f.service.CreateCustomer(ctx, f.pharmacyID, CreateCustomerRequest{
			FirstName: "Awa",
			LastName:  "Ndiaye",
			Phone:     "+221771234567",
			Email:     "awa.ndiaye@example.sn",
			Address:   "Sicap Liberté 6, Dakar",
			BirthDate: &birth,
		})
		require.NoError(t, err)
		assert.Equal(t, "Awa Ndiaye", created.FullName)
		assert.Equal(t, "ACTIVE", created.Status)
		assert.Nil(t, created.InsurerID)

		found, err := f.service.SearchCustomerByPhone(ctx, f.pharmacyID, "+221771234567")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("duplicate phone is refused", func(t *testing.T) {
		f := newPartnerFixture()
		_, err := f.service.CreateCustomer(ctx, f.pharmacyID, CreateCustomerRequest{
			FirstName: "Awa", LastName: "Ndiaye", Phone: "+221771234567",
		})
		require.NoError(t, err)

		_, err = f.service.CreateCustomer(ctx, f.pharmacyID, CreateCustomerRequest{
			FirstName: "Autre", LastName: "Personne", Phone: "+221771234567",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PHONE_TAKEN", domainErr.Code)
	})

	t.Run("affiliation lifecycle", func(t *testing.T) {
		f := newPartnerFixture()
		insurerID := f.addInsurer(t, "IPM Sonatel", 80)

		created, err := f.service.CreateCustomer(ctx, f.pharmacyID, CreateCustomerRequest{
			FirstName: "Cheikh", LastName: "Sarr", Phone: "+221776543210",
		})
		require.NoError(t, err)

		affiliated, err := f.service.Affiliate(ctx, f.pharmacyID, created.ID, AffiliateRequest{
			InsurerID:        insurerID,
			MembershipNumber: "IPM-2024-0042",
		})
		require.NoError(t, err)
		require.NotNil(t, affiliated.InsurerID)
		assert.Equal(t, insurerID, *affiliated.InsurerID)
		assert.Equal(t, "IPM-2024-0042", affiliated.MembershipNumber)

		removed, err := f.service.RemoveAffiliation(ctx, f.pharmacyID, created.ID)
		require.NoError(t, err)
		assert.Nil(t, removed.InsurerID)
		assert.Empty(t, removed.MembershipNumber)
	})

	t.Run("affiliation to unknown insurer fails", func(t *testing.T) {
		f := newPartnerFixture()
		created, err := f.service.CreateCustomer(ctx, f.pharmacyID, CreateCustomerRequest{
			FirstName: "Cheikh", LastName: "Sarr", Phone: "+221776543210",
		})
		require.NoError(t, err)

		_, err = f.service.Affiliate(ctx, f.pharmacyID, created.ID, AffiliateRequest{
			InsurerID:        uuid.New(),
			MembershipNumber: "IPM-2024-0001",
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("deactivate", func(t *testing.T) {
		f := newPartnerFixture()
		created, err := f.service.CreateCustomer(ctx, f.pharmacyID, CreateCustomerRequest{
			FirstName: "Fatou", LastName: "Diop", Phone: "+221770001122",
		})
		require.NoError(t, err)

		deactivated, err := f.service.DeactivateCustomer(ctx, f.pharmacyID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "INACTIVE", deactivated.Status)
	})

	t.Run("tenant scope required", func(t *testing.T) {
		f := newPartnerFixture()
		_, err := f.service.CreateCustomer(ctx, uuid.Nil, CreateCustomerRequest{
			FirstName: "Awa", LastName: "Ndiaye", Phone: "+221771234567",
		})
		require.ErrorIs(t, err, shared.ErrTenantScopeMissing)
	})
}

func TestPartnerService_Suppliers(t *testing.T) {
	ctx := context.Background()

	t.Run("create and list", func(t *testing.T) {
		f := newPartnerFixture()

		created, err := f.service.CreateSupplier(ctx, f.pharmacyID, CreateSupplierRequest{
			Name:        "Laborex Senegal",
			ContactName: "Moussa Diop",
			Phone:       "+221338234567",
			Address:     "Km 2.5 Boulevard du Centenaire, Dakar",
		})
		require.NoError(t, err)
		assert.Equal(t, "Laborex Senegal", created.Name)
		assert.Equal(t, "ACTIVE", created.Status)

		_, err = f.service.CreateSupplier(ctx, f.pharmacyID, CreateSupplierRequest{Name: "Sodipharm"})
		require.NoError(t, err)

		list, err := f.service.ListSuppliers(ctx, f.pharmacyID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("duplicate name is refused", func(t *testing.T) {
		f := newPartnerFixture()
		_, err := f.service.CreateSupplier(ctx, f.pharmacyID, CreateSupplierRequest{Name: "Laborex Senegal"})
		require.NoError(t, err)

		_, err = f.service.CreateSupplier(ctx, f.pharmacyID, CreateSupplierRequest{Name: "Laborex Senegal"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NAME_TAKEN", domainErr.Code)
	})

	t.Run("deactivate", func(t *testing.T) {
		f := newPartnerFixture()
		created, err := f.service.CreateSupplier(ctx, f.pharmacyID, CreateSupplierRequest{Name: "Ubipharm"})
		require.NoError(t, err)

		deactivated, err := f.service.DeactivateSupplier(ctx, f.pharmacyID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "INACTIVE", deactivated.Status)
	})
}
