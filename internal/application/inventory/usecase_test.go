package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/usecase"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/memory"
)

type fixture struct {
	ledger     *inventory.LedgerUseCase
	products   *usecase.ProductUseCase
	warehouses *usecase.WarehouseUseCase
	productRep *memory.ProductRepo
	stockRepo  *memory.StockRepo
	logRepo    *memory.StockLogRepo
	recorder   *countingRecorder
}

type countingRecorder struct {
	movements map[string]int
	rows      map[string]int
}

func (r *countingRecorder) StockMovement(action string) { r.movements[action]++ }
func (r *countingRecorder) ImportRow(status string)     { r.rows[status]++ }

func newFixture() *fixture {
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	warehouseRepo := memory.NewWarehouseRepository(store)
	stockRepo := memory.NewStockRepository(store)
	logRepo := memory.NewStockLogRepository(store)
	rec := &countingRecorder{movements: map[string]int{}, rows: map[string]int{}}
	return &fixture{
		ledger:     inventory.NewLedgerUseCase(memory.NewTxRunner(store), productRepo, warehouseRepo, logRepo, rec),
		products:   usecase.NewProductUseCase(productRepo, stockRepo, warehouseRepo),
		warehouses: usecase.NewWarehouseUseCase(warehouseRepo, stockRepo, productRepo),
		productRep: productRepo,
		stockRepo:  stockRepo,
		logRepo:    logRepo,
		recorder:   rec,
	}
}

func (f *fixture) product(t *testing.T, name string) string {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{Name: name})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) warehouse(t *testing.T, name string) string {
	t.Helper()
	w, err := f.warehouses.Create(context.Background(), dto.CreateWarehouseRequest{Name: name})
	require.NoError(t, err)
	return w.ID
}

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) quantity(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	e, err := f.stockRepo.Get(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	if e == nil {
		return decimal.Zero
	}
	return e.Quantity
}

func TestLedger_AddThenTransfer(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	pipe := f.product(t, "Steel Pipe")
	main := f.warehouse(t, "Main")
	site := f.warehouse(t, "Site-A")

	_, err := f.ledger.AddStock(ctx, "u1", dto.AddStockRequest{ProductID: pipe, WarehouseID: main, Quantity: qty(50)})
	require.NoError(t, err)

	p, err := f.products.GetByID(ctx, pipe)
	require.NoError(t, err)
	assert.True(t, p.TotalStock.Equal(qty(50)))

	_, err = f.ledger.TransferStock(ctx, "u1", dto.TransferStockRequest{
		ProductID: pipe, FromWarehouseID: main, ToWarehouseID: site, Quantity: qty(20),
	})
	require.NoError(t, err)

	assert.True(t, f.quantity(t, pipe, main).Equal(qty(30)))
	assert.True(t, f.quantity(t, pipe, site).Equal(qty(20)))
	p, err = f.products.GetByID(ctx, pipe)
	require.NoError(t, err)
	assert.True(t, p.TotalStock.Equal(qty(50)), "una transferencia no cambia el total")

	logs, err := f.ledger.ListLogs(ctx, repository.StockLogFilter{ProductID: pipe})
	require.NoError(t, err)
	require.Len(t, logs.Items, 2)
	// más reciente primero
	assert.Equal(t, entity.StockActionTRANSFER, logs.Items[0].Action)
	assert.Equal(t, entity.StockActionIN, logs.Items[1].Action)
	assert.Equal(t, 1, f.recorder.movements[entity.StockActionIN])
	assert.Equal(t, 1, f.recorder.movements[entity.StockActionTRANSFER])
}

func TestLedger_TransferInsufficientLeavesStockUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	pipe := f.product(t, "Steel Pipe")
	a := f.warehouse(t, "A")
	b := f.warehouse(t, "B")
	_, err := f.ledger.AddStock(ctx, "u1", dto.AddStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(5)})
	require.NoError(t, err)
	_, err = f.ledger.AddStock(ctx, "u1", dto.AddStockRequest{ProductID: pipe, WarehouseID: b, Quantity: qty(1)})
	require.NoError(t, err)

	_, err = f.ledger.TransferStock(ctx, "u1", dto.TransferStockRequest{
		ProductID: pipe, FromWarehouseID: a, ToWarehouseID: b, Quantity: qty(6),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.quantity(t, pipe, a).Equal(qty(5)))
	assert.True(t, f.quantity(t, pipe, b).Equal(qty(1)))

	logs, err := f.logRepo.List(ctx, repository.StockLogFilter{Action: entity.StockActionTRANSFER})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLedger_TransferRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	pipe := f.product(t, "Steel Pipe")
	a := f.warehouse(t, "A")
	b := f.warehouse(t, "B")
	_, err := f.ledger.AddStock(ctx, "u1", dto.AddStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(12)})
	require.NoError(t, err)

	_, err = f.ledger.TransferStock(ctx, "u1", dto.TransferStockRequest{ProductID: pipe, FromWarehouseID: a, ToWarehouseID: b, Quantity: qty(7)})
	require.NoError(t, err)
	_, err = f.ledger.TransferStock(ctx, "u1", dto.TransferStockRequest{ProductID: pipe, FromWarehouseID: b, ToWarehouseID: a, Quantity: qty(7)})
	require.NoError(t, err)

	assert.True(t, f.quantity(t, pipe, a).Equal(qty(12)))
	assert.True(t, f.quantity(t, pipe, b).IsZero())
}

func TestLedger_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	pipe := f.product(t, "Steel Pipe")
	a := f.warehouse(t, "A")

	tests := []struct {
		name string
		in   dto.AddStockRequest
		want error
	}{
		{"cantidad cero", dto.AddStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(0)}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.AddStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(-3)}, domain.ErrInvalidInput},
		{"producto inexistente", dto.AddStockRequest{ProductID: "nope", WarehouseID: a, Quantity: qty(1)}, domain.ErrNotFound},
		{"bodega inexistente", dto.AddStockRequest{ProductID: pipe, WarehouseID: "nope", Quantity: qty(1)}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.AddStock(ctx, "u1", tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.ledger.TransferStock(ctx, "u1", dto.TransferStockRequest{ProductID: pipe, FromWarehouseID: a, ToWarehouseID: a, Quantity: qty(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_RemoveStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	pipe := f.product(t, "Steel Pipe")
	a := f.warehouse(t, "A")
	_, err := f.ledger.AddStock(ctx, "u1", dto.AddStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(4)})
	require.NoError(t, err)

	_, err = f.ledger.RemoveStock(ctx, "u1", dto.RemoveStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(5)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	resp, err := f.ledger.RemoveStock(ctx, "u1", dto.RemoveStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(3)})
	require.NoError(t, err)
	assert.Equal(t, entity.StockActionOUT, resp.Log.Action)
	assert.True(t, f.quantity(t, pipe, a).Equal(qty(1)))
}

func TestStockCheck_WarnsWhenPlannedExceedsStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	pipe := f.product(t, "Steel Pipe")
	a := f.warehouse(t, "A")
	_, err := f.ledger.AddStock(ctx, "u1", dto.AddStockRequest{ProductID: pipe, WarehouseID: a, Quantity: qty(10)})
	require.NoError(t, err)

	check := inventory.NewStockCheckUseCase(f.productRep, f.stockRepo)

	warnings, err := check.Check(ctx, []entity.ProjectLineItem{{ProductID: pipe, PlannedQuantity: qty(8)}})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	warnings, err = check.Check(ctx, []entity.ProjectLineItem{
		{ProductID: pipe, PlannedQuantity: qty(6)},
		{ProductID: pipe, PlannedQuantity: qty(6)},
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.True(t, warnings[0].Planned.Equal(qty(12)))
	assert.True(t, warnings[0].Available.Equal(qty(10)))
	assert.True(t, strings.Contains(warnings[0].Message, "Steel Pipe"))
}
