package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/catalog"
	appledger "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/ledger"
	apppartner "github.com/putrihati-cmd/BUMASansor-sub004/internal/application/partner"
	"github.com/putrihati-cmd/BUMASansor-sub004/internal/infrastructure/persistence"
)

type stockStack struct {
	ledger  *appledger.LedgerService
	opnames *appledger.OpnameService
}

func newStockStack(tdb *TestDB) stockStack {
	txScope := persistence.NewGormLedgerTransactionScope(tdb.DB)
	ledgerService := appledger.NewLedgerService(
		txScope,
		persistence.NewGormStockMovementRepository(tdb.DB),
		persistence.NewGormStockLevelRepository(tdb.DB),
	)
	opnameService := appledger.NewOpnameService(
		txScope,
		persistence.NewGormStockOpnameRepository(tdb.DB),
	)

	auditSink := persistence.NewGormAuditSink(tdb.DB, nil)
	ledgerService.SetAuditSink(auditSink)
	opnameService.SetAuditSink(auditSink)

	return stockStack{ledger: ledgerService, opnames: opnameService}
}

func seedProduct(t *testing.T, tdb *TestDB, sku string) appcatalog.ProductResponse {
	t.Helper()

	service := appcatalog.NewProductService(persistence.NewGormProductRepository(tdb.DB))
	product, err := service.Create(context.Background(), appcatalog.CreateProductRequest{
		SKU:  sku,
		Name: "Indomie Goreng 85g",
		Unit: "carton",
	})
	require.NoError(t, err)
	return *product
}

func seedWarehouse(t *testing.T, tdb *TestDB, code string) apppartner.WarehouseResponse {
	t.Helper()

	service := apppartner.NewWarehouseService(persistence.NewGormWarehouseRepository(tdb.DB))
	warehouse, err := service.Create(context.Background(), apppartner.CreateWarehouseRequest{
		Code: code,
		Name: "Gudang " + code,
		City: "Bandung",
	})
	require.NoError(t, err)
	return *warehouse
}

func TestStockMovementAndTransferFlow(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newStockStack(tdb)
	ctx := context.Background()

	product := seedProduct(t, tdb, "SKU-IDM-001")
	whA := seedWarehouse(t, tdb, "BDG-01")
	whB := seedWarehouse(t, tdb, "BDG-02")

	movement, err := stack.ledger.RecordMovement(ctx, appledger.RecordMovementRequest{
		ProductID:   product.ID,
		WarehouseID: whA.ID,
		Kind:        "PURCHASE_IN",
		Quantity:    100,
		Note:        "initial receipt",
		Actor:       "budi",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), movement.BalanceBefore)
	assert.Equal(t, int64(100), movement.BalanceAfter)

	transfer, err := stack.ledger.Transfer(ctx, appledger.TransferRequest{
		ProductID:       product.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        40,
		Actor:           "budi",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRANSFER_OUT", transfer.Out.Kind)
	assert.Equal(t, "TRANSFER_IN", transfer.In.Kind)
	require.NotNil(t, transfer.Out.PairID)
	require.NotNil(t, transfer.In.PairID)
	assert.Equal(t, transfer.In.ID, *transfer.Out.PairID)
	assert.Equal(t, transfer.Out.ID, *transfer.In.PairID)

	// the link must survive persistence, not just the response
	movementRepo := persistence.NewGormStockMovementRepository(tdb.DB)
	storedOut, err := movementRepo.FindByID(ctx, transfer.Out.ID)
	require.NoError(t, err)
	require.NotNil(t, storedOut.PairID)
	assert.Equal(t, transfer.In.ID, *storedOut.PairID)

	storedIn, err := movementRepo.FindByID(ctx, transfer.In.ID)
	require.NoError(t, err)
	require.NotNil(t, storedIn.PairID)
	assert.Equal(t, transfer.Out.ID, *storedIn.PairID)

	qtyA, err := stack.ledger.CurrentQuantity(ctx, product.ID, whA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), qtyA)

	qtyB, err := stack.ledger.CurrentQuantity(ctx, product.ID, whB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), qtyB)

	// the cached level must agree with folding the full movement history
	folded, err := stack.ledger.FoldQuantity(ctx, product.ID, whA.ID)
	require.NoError(t, err)
	assert.Equal(t, qtyA, folded)

	// sensitive mutations land in the audit trail
	assert.Equal(t, int64(2), tdb.CountRows("audit_entries"))

	_, err = stack.ledger.Transfer(ctx, appledger.TransferRequest{
		ProductID:       product.ID,
		FromWarehouseID: whA.ID,
		ToWarehouseID:   whB.ID,
		Quantity:        1000,
	})
	assert.Error(t, err, "transfer beyond on-hand quantity must fail")
}

func TestOpnameReconciliationFlow(t *testing.T) {
	tdb := NewTestDB(t)
	stack := newStockStack(tdb)
	ctx := context.Background()

	product := seedProduct(t, tdb, "SKU-IDM-002")
	warehouse := seedWarehouse(t, tdb, "BDG-03")

	_, err := stack.ledger.RecordMovement(ctx, appledger.RecordMovementRequest{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Kind:        "PURCHASE_IN",
		Quantity:    50,
		Actor:       "siti",
	})
	require.NoError(t, err)

	opname, err := stack.opnames.Create(ctx, appledger.CreateOpnameRequest{
		WarehouseID: warehouse.ID,
		Note:        "monthly count",
		Lines: []appledger.OpnameLineRequest{
			{ProductID: product.ID, CountedQty: 47},
		},
		CountedBy: "siti",
	})
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", opname.Status)

	reconciled, err := stack.opnames.Reconcile(ctx, opname.ID, "siti")
	require.NoError(t, err)
	assert.Equal(t, "RECONCILED", reconciled.Status)
	require.Len(t, reconciled.Lines, 1)
	assert.Equal(t, int64(50), reconciled.Lines[0].SystemQty)
	assert.Equal(t, int64(-3), reconciled.Lines[0].Delta)

	qty, err := stack.ledger.CurrentQuantity(ctx, product.ID, warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(47), qty, "level must match the counted quantity after reconciliation")

	// the shrinkage was booked as an adjustment movement
	history, _, err := stack.ledger.History(ctx, appledger.HistoryFilter{
		ProductID:   &product.ID,
		WarehouseID: &warehouse.ID,
	})
	require.NoError(t, err)
	var kinds []string
	for _, m := range history {
		kinds = append(kinds, m.Kind)
	}
	assert.Contains(t, kinds, "ADJUSTMENT_OUT")
}
