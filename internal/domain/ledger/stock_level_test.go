package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLevel(t *testing.T) *StockLevel {
	t.Helper()
	level, err := NewStockLevel(uuid.New(), uuid.New())
	require.NoError(t, err)
	return level
}

func TestNewStockLevel(t *testing.T) {
	t.Run("starts at zero", func(t *testing.T) {
		level := newTestLevel(t)
		assert.Equal(t, int64(0), level.Quantity)
		assert.Equal(t, 1, level.GetVersion())
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewStockLevel(uuid.Nil, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects nil warehouse", func(t *testing.T) {
		_, err := NewStockLevel(uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})
}

func TestStockLevelApply(t *testing.T) {
	t.Run("inbound increases quantity", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.Apply(MovementKindPurchaseIn, 100))
		assert.Equal(t, int64(100), level.Quantity)
		assert.Equal(t, 2, level.GetVersion())
	})

	t.Run("outbound decreases quantity", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.Apply(MovementKindPurchaseIn, 100))
		require.NoError(t, level.Apply(MovementKindSaleOut, 30))
		assert.Equal(t, int64(70), level.Quantity)
	})

	t.Run("outbound below zero rejected", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.Apply(MovementKindPurchaseIn, 10))

		err := level.Apply(MovementKindSaleOut, 11)
		require.Error(t, err)
		domainErr := err.(*shared.DomainError)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Equal(t, int64(10), level.Quantity)
	})

	t.Run("exact drain to zero allowed", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.Apply(MovementKindPurchaseIn, 10))
		require.NoError(t, level.Apply(MovementKindTransferOut, 10))
		assert.Equal(t, int64(0), level.Quantity)
	})

	t.Run("adjustment out bypasses the stock guard up to zero", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.Apply(MovementKindPurchaseIn, 10))
		require.NoError(t, level.Apply(MovementKindAdjustmentOut, 10))
		assert.Equal(t, int64(0), level.Quantity)
	})

	t.Run("adjustment below zero still rejected", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.Apply(MovementKindPurchaseIn, 5))
		assert.Error(t, level.Apply(MovementKindAdjustmentOut, 6))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		level := newTestLevel(t)
		assert.Error(t, level.Apply(MovementKindPurchaseIn, 0))
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		level := newTestLevel(t)
		assert.Error(t, level.Apply(MovementKind("BOGUS"), 5))
	})
}

func TestStockLevelCanFulfill(t *testing.T) {
	level := newTestLevel(t)
	require.NoError(t, level.Apply(MovementKindPurchaseIn, 50))

	assert.True(t, level.CanFulfill(50))
	assert.True(t, level.CanFulfill(1))
	assert.False(t, level.CanFulfill(51))
	assert.False(t, level.CanFulfill(0))
	assert.False(t, level.CanFulfill(-1))
}
