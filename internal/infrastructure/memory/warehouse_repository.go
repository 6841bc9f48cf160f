package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación en memoria de WarehouseRepository.
type WarehouseRepo struct {
	store *Store
	inTx  bool
}

func NewWarehouseRepository(store *Store) *WarehouseRepo {
	return &WarehouseRepo{store: store}
}

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *w
		st.warehouses[w.ID] = &cp
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.store.view(r.inTx, func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			cp := *w
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *w
		st.warehouses[w.ID] = &cp
		return nil
	})
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.store.view(r.inTx, func(st *state) error {
		for _, w := range st.warehouses {
			cp := *w
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.warehouses[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.warehouses, id)
		for k := range st.stock {
			if k.warehouseID == id {
				delete(st.stock, k)
			}
		}
		return nil
	})
}
