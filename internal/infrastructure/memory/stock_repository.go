package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación en memoria de StockRepository.
type StockRepo struct {
	store *Store
	inTx  bool
}

func NewStockRepository(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

func (r *StockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.store.view(r.inTx, func(st *state) error {
		e, ok := st.stock[stockKey{productID, warehouseID}]
		if !ok {
			e = entity.StockEntry{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
		}
		out = &e
		return nil
	})
	return out, err
}

// GetForUpdate igual a Get: dentro de TxRunner el mutex del store ya serializa el acceso.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.StockEntry) error {
	return r.store.view(r.inTx, func(st *state) error {
		st.stock[stockKey{stock.ProductID, stock.WarehouseID}] = *stock
		return nil
	})
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]entity.StockEntry, error) {
	return r.list(func(k stockKey) bool { return k.productID == productID })
}

func (r *StockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]entity.StockEntry, error) {
	return r.list(func(k stockKey) bool { return k.warehouseID == warehouseID })
}

func (r *StockRepo) list(match func(stockKey) bool) ([]entity.StockEntry, error) {
	var out []entity.StockEntry
	err := r.store.view(r.inTx, func(st *state) error {
		for k, e := range st.stock {
			if match(k) {
				out = append(out, e)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, err
}
