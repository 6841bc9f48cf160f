package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/inventory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestTransfer_RoundTrip(t *testing.T) {
	main := &entity.StockEntry{WarehouseID: "main", Quantity: d(50)}
	site := &entity.StockEntry{WarehouseID: "site-a"}

	require.NoError(t, inventory.Transfer(main, site, d(20)))
	assert.True(t, main.Quantity.Equal(d(30)))
	assert.True(t, site.Quantity.Equal(d(20)))
	assert.True(t, inventory.Total([]entity.StockEntry{*main, *site}).Equal(d(50)))

	require.NoError(t, inventory.Transfer(site, main, d(20)))
	assert.True(t, main.Quantity.Equal(d(50)))
	assert.True(t, site.Quantity.IsZero())
}

func TestTransfer_InsufficientLeavesBothUnchanged(t *testing.T) {
	from := &entity.StockEntry{WarehouseID: "a", Quantity: d(5)}
	to := &entity.StockEntry{WarehouseID: "b", Quantity: d(1)}
	err := inventory.Transfer(from, to, d(6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, from.Quantity.Equal(d(5)))
	assert.True(t, to.Quantity.Equal(d(1)))
}

func TestQuantityMustBePositive(t *testing.T) {
	s := &entity.StockEntry{Quantity: d(3)}
	assert.ErrorIs(t, inventory.Add(s, decimal.Zero), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.Remove(s, d(-1)), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.Transfer(s, &entity.StockEntry{}, d(1)), domain.ErrInvalidInput, "misma bodega")
}

func TestLockOrder(t *testing.T) {
	a, b := inventory.LockOrder("z", "a")
	assert.Equal(t, "a", a)
	assert.Equal(t, "z", b)
}

func TestShortfalls(t *testing.T) {
	stock := map[string]entity.ProductWithStock{
		"p1": {Product: entity.Product{ID: "p1", Name: "Tubo"}, Stock: []entity.StockEntry{{Quantity: d(10)}, {Quantity: d(5)}}},
		"p2": {Product: entity.Product{ID: "p2", Name: "Válvula"}, Stock: []entity.StockEntry{{Quantity: d(100)}}},
	}
	items := []entity.ProjectLineItem{
		{ProductID: "p1", PlannedQuantity: d(10)},
		{ProductID: "p2", PlannedQuantity: d(3)},
		{ProductID: "p1", PlannedQuantity: d(6)},
	}
	out := inventory.Shortfalls(items, stock)
	require.Len(t, out, 1)
	assert.Equal(t, "Tubo", out[0].Name)
	assert.True(t, out[0].Planned.Equal(d(16)))
	assert.True(t, out[0].Available.Equal(d(15)))
}
