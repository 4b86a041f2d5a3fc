package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/ledger"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockMovementRepository creates a GormStockMovementRepository with a mocked SQL connection
func newMockMovementRepository(t *testing.T) (*GormStockMovementRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockMovementRepository(gormDB), mock, mockDB
}

func TestNewGormStockMovementRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormStockMovementRepository_FindByID(t *testing.T) {
	t.Run("finds existing movement", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		movementID := uuid.New()
		productID := uuid.New()
		warehouseID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "product_id", "warehouse_id", "kind", "quantity",
			"balance_before", "balance_after", "source_type", "occurred_at",
		}).AddRow(
			movementID, productID, warehouseID, "PURCHASE_IN", int64(50),
			int64(0), int64(50), "PURCHASE_ORDER", now,
		)

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE id = \$1`).
			WithArgs(movementID, 1).
			WillReturnRows(rows)

		movement, err := repo.FindByID(context.Background(), movementID)

		assert.NoError(t, err)
		assert.NotNil(t, movement)
		assert.Equal(t, movementID, movement.ID)
		assert.Equal(t, ledger.MovementKindPurchaseIn, movement.Kind)
		assert.Equal(t, int64(50), movement.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent movement", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		movementID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE id = \$1`).
			WithArgs(movementID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		movement, err := repo.FindByID(context.Background(), movementID)

		assert.Error(t, err)
		assert.Nil(t, movement)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_FindBySource(t *testing.T) {
	t.Run("finds movements for a source document", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		sourceID := uuid.New()
		productID := uuid.New()
		warehouseID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "product_id", "warehouse_id", "kind", "quantity", "source_type", "source_id", "occurred_at",
		}).
			AddRow(uuid.New(), productID, warehouseID, "SALE_OUT", int64(10), "DELIVERY_ORDER", sourceID, now).
			AddRow(uuid.New(), uuid.New(), warehouseID, "SALE_OUT", int64(5), "DELIVERY_ORDER", sourceID, now)

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE source_type = \$1 AND source_id = \$2`).
			WithArgs("DELIVERY_ORDER", sourceID).
			WillReturnRows(rows)

		movements, err := repo.FindBySource(context.Background(), ledger.SourceTypeDeliveryOrder, sourceID)

		assert.NoError(t, err)
		assert.Len(t, movements, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_SumQuantity(t *testing.T) {
	t.Run("folds signed deltas for a product in a warehouse", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		warehouseID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN kind IN`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(35)))

		sum, err := repo.SumQuantity(context.Background(), productID, warehouseID)

		assert.NoError(t, err)
		assert.Equal(t, int64(35), sum)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero for a product with no movements", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN kind IN`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))

		sum, err := repo.SumQuantity(context.Background(), uuid.New(), uuid.New())

		assert.NoError(t, err)
		assert.Equal(t, int64(0), sum)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockMovementRepository_History(t *testing.T) {
	t.Run("lists movements newest first with total count", func(t *testing.T) {
		repo, mock, mockDB := newMockMovementRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		warehouseID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_movements" WHERE product_id = \$1`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

		rows := sqlmock.NewRows([]string{
			"id", "product_id", "warehouse_id", "kind", "quantity", "source_type", "occurred_at",
		}).
			AddRow(uuid.New(), productID, warehouseID, "SALE_OUT", int64(10), "DELIVERY_ORDER", now).
			AddRow(uuid.New(), productID, warehouseID, "PURCHASE_IN", int64(50), "PURCHASE_ORDER", now.Add(-time.Hour))

		mock.ExpectQuery(`SELECT \* FROM "stock_movements" WHERE product_id = \$1 ORDER BY occurred_at DESC`).
			WithArgs(productID, 20).
			WillReturnRows(rows)

		movements, total, err := repo.History(context.Background(), ledger.MovementFilter{
			ProductID: &productID,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, movements, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
