package memory

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo implementación en memoria del libro de auditoría (solo inserción).
type StockLogRepo struct {
	store *Store
	inTx  bool
}

func NewStockLogRepository(store *Store) *StockLogRepo {
	return &StockLogRepo{store: store}
}

func (r *StockLogRepo) Create(_ context.Context, log *entity.StockLog) error {
	return r.store.view(r.inTx, func(st *state) error {
		cp := *log
		st.logs = append(st.logs, &cp)
		return nil
	})
}

func (r *StockLogRepo) List(_ context.Context, f repository.StockLogFilter) ([]*entity.StockLog, error) {
	var out []*entity.StockLog
	err := r.store.view(r.inTx, func(st *state) error {
		for i := len(st.logs) - 1; i >= 0; i-- {
			l := st.logs[i]
			if f.ProductID != "" && l.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && l.WarehouseID != f.WarehouseID && l.ToWarehouseID != f.WarehouseID {
				continue
			}
			if f.Action != "" && l.Action != f.Action {
				continue
			}
			cp := *l
			out = append(out, &cp)
		}
		return nil
	})
	return page(out, f.Limit, f.Offset), err
}
