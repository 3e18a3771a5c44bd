package catalog

import (
	"testing"

	"github.com/asspharma/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewProductParams {
	return NewProductParams{
		CommercialName: "Doliprane 1000mg",
		DCI:            "Paracetamol",
		Dosage:         "1000mg",
		Form:           "comprime",
		Manufacturer:   "Sanofi",
		Shelf:          "A1",
		ShelfLevel:     2,
		UnitPrice:      valueobject.NewMoneyXOFFromInt(200),
		MinStock:       20,
		SaleCategory:   SaleCategoryOverTheCounter,
	}
}

func TestNewProduct(t *testing.T) {
	pharmacyID := uuid.New()

	t.Run("creates product successfully", func(t *testing.T) {
		product, err := NewProduct(pharmacyID, validParams())

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, pharmacyID, product.PharmacyID)
		assert.Equal(t, "Doliprane 1000mg", product.CommercialName)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("defaults sale category to over the counter", func(t *testing.T) {
		p := validParams()
		p.SaleCategory = ""

		product, err := NewProduct(pharmacyID, p)

		require.NoError(t, err)
		assert.Equal(t, SaleCategoryOverTheCounter, product.SaleCategory)
		assert.False(t, product.RequiresPrescription())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		p := validParams()
		p.CommercialName = ""

		product, err := NewProduct(pharmacyID, p)

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("fails with negative threshold", func(t *testing.T) {
		p := validParams()
		p.MinStock = -1

		_, err := NewProduct(pharmacyID, p)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "threshold")
	})
}

func TestProduct_ChangeStatus(t *testing.T) {
	product, err := NewProduct(uuid.New(), validParams())
	require.NoError(t, err)
	product.ClearDomainEvents()

	t.Run("transitions to recalled", func(t *testing.T) {
		err := product.ChangeStatus(ProductStatusRecalled)

		require.NoError(t, err)
		assert.Equal(t, ProductStatusRecalled, product.Status)
		assert.False(t, product.IsSellable())
		require.Len(t, product.GetDomainEvents(), 1)
		evt := product.GetDomainEvents()[0].(*ProductStatusChangedEvent)
		assert.Equal(t, ProductStatusActive, evt.PreviousStatus)
		assert.Equal(t, ProductStatusRecalled, evt.NewStatus)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		product.ClearDomainEvents()
		version := product.GetVersion()

		err := product.ChangeStatus(ProductStatusRecalled)

		require.NoError(t, err)
		assert.Equal(t, version, product.GetVersion())
		assert.Empty(t, product.GetDomainEvents())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		err := product.ChangeStatus(ProductStatus("GONE"))

		require.Error(t, err)
	})
}

func TestProduct_RequiresPrescription(t *testing.T) {
	p := validParams()
	p.SaleCategory = SaleCategoryPrescriptionRequired

	product, err := NewProduct(uuid.New(), p)

	require.NoError(t, err)
	assert.True(t, product.RequiresPrescription())
}
