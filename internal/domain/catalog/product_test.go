package catalog

import (
	"testing"

	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid fields", func(t *testing.T) {
		product, err := NewProduct("sku-001", "Instant Noodles 80g", "pcs")
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, "Instant Noodles 80g", product.Name)
		assert.Equal(t, "pcs", product.Unit)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.Equal(t, 1, product.GetVersion())
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewProduct("", "Name", "pcs")
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "  ", "pcs")
		assert.Error(t, err)
	})

	t.Run("rejects empty unit", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "Name", "")
		assert.Error(t, err)
	})
}

func TestProductSetPrices(t *testing.T) {
	product, err := NewProduct("SKU-001", "Instant Noodles 80g", "pcs")
	require.NoError(t, err)

	t.Run("sets valid prices", func(t *testing.T) {
		err := product.SetPrices(valueobject.NewMoneyIDRFromInt(2500), valueobject.NewMoneyIDRFromInt(3000))
		require.NoError(t, err)
		assert.Equal(t, int64(2500), product.PurchasePrice.IntPart())
		assert.Equal(t, int64(3000), product.SellingPrice.IntPart())
	})

	t.Run("rejects negative purchase price", func(t *testing.T) {
		err := product.SetPrices(valueobject.NewMoneyIDRFromInt(-1), valueobject.NewMoneyIDRFromInt(100))
		assert.Error(t, err)
	})

	t.Run("rejects negative selling price", func(t *testing.T) {
		err := product.SetPrices(valueobject.NewMoneyIDRFromInt(100), valueobject.NewMoneyIDRFromInt(-1))
		assert.Error(t, err)
	})
}

func TestProductStatusTransitions(t *testing.T) {
	t.Run("deactivate then reactivate", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Name", "pcs")
		require.NoError(t, err)

		require.NoError(t, product.Deactivate())
		assert.Equal(t, ProductStatusInactive, product.Status)

		require.NoError(t, product.Activate())
		assert.Equal(t, ProductStatusActive, product.Status)
	})

	t.Run("discontinued is terminal", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Name", "pcs")
		require.NoError(t, err)

		product.Discontinue()
		assert.Equal(t, ProductStatusDiscontinued, product.Status)

		err = product.Activate()
		require.Error(t, err)
		domainErr := err.(*shared.DomainError)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)

		assert.Error(t, product.Deactivate())
	})

	t.Run("status change emits event and bumps version", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Name", "pcs")
		require.NoError(t, err)
		product.ClearDomainEvents()
		versionBefore := product.GetVersion()

		require.NoError(t, product.Deactivate())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductStatusChanged, events[0].EventType())
		assert.Equal(t, versionBefore+1, product.GetVersion())
	})
}

func TestProductSetMinStock(t *testing.T) {
	product, err := NewProduct("SKU-001", "Name", "pcs")
	require.NoError(t, err)

	require.NoError(t, product.SetMinStock(10))
	assert.Equal(t, int64(10), product.MinStock)

	assert.Error(t, product.SetMinStock(-5))
}

func TestProductStatusIsValid(t *testing.T) {
	assert.True(t, ProductStatusActive.IsValid())
	assert.True(t, ProductStatusInactive.IsValid())
	assert.True(t, ProductStatusDiscontinued.IsValid())
	assert.False(t, ProductStatus("bogus").IsValid())
}
