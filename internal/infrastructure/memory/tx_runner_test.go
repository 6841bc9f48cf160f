package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
	"github.com/jhoicas/sitetrack-api/internal/infrastructure/memory"
)

func TestTxRunner_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	stock := memory.NewStockRepository(store)
	logs := memory.NewStockLogRepository(store)
	require.NoError(t, stock.Upsert(ctx, &entity.StockEntry{ProductID: "p", WarehouseID: "w", Quantity: decimal.NewFromInt(5)}))

	boom := errors.New("boom")
	err := memory.NewTxRunner(store).Run(ctx, func(s repository.StockRepository, l repository.StockLogRepository) error {
		e, err := s.GetForUpdate(ctx, "p", "w")
		require.NoError(t, err)
		e.Quantity = decimal.NewFromInt(1)
		require.NoError(t, s.Upsert(ctx, e))
		require.NoError(t, l.Create(ctx, &entity.StockLog{ID: "l1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	e, err := stock.Get(ctx, "p", "w")
	require.NoError(t, err)
	assert.True(t, e.Quantity.Equal(decimal.NewFromInt(5)))
	all, err := logs.List(ctx, repository.StockLogFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTxRunner_CommitKeepsState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	err := memory.NewTxRunner(store).Run(ctx, func(s repository.StockRepository, l repository.StockLogRepository) error {
		return s.Upsert(ctx, &entity.StockEntry{ProductID: "p", WarehouseID: "w", Quantity: decimal.NewFromInt(2)})
	})
	require.NoError(t, err)
	e, err := memory.NewStockRepository(store).Get(ctx, "p", "w")
	require.NoError(t, err)
	assert.True(t, e.Quantity.Equal(decimal.NewFromInt(2)))
}

func TestProductRepo_DuplicateSKU(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository(memory.NewStore())
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "1", SKU: "ABC", Name: "Tubo"}))
	err := repo.Create(ctx, &entity.Product{ID: "2", SKU: "abc", Name: "Otro"})
	assert.Error(t, err)

	list, err := repo.List(ctx, repository.ProductFilter{Search: "tu"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
