package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	store *Store
	inTx  bool
}

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, product.SKU) {
				return domain.ErrDuplicate
			}
		}
		st.products[product.ID] = cloneProduct(product)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.view(r.inTx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = cloneProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.view(r.inTx, func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.SKU, sku) {
				out = cloneProduct(p)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.products[product.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.products {
			if p.ID != product.ID && strings.EqualFold(p.SKU, product.SKU) {
				return domain.ErrDuplicate
			}
		}
		st.products[product.ID] = cloneProduct(product)
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.store.view(r.inTx, func(st *state) error {
		q := strings.ToLower(strings.TrimSpace(filter.Search))
		for _, p := range st.products {
			if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
				continue
			}
			out = append(out, cloneProduct(p))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, filter.Limit, filter.Offset), err
}

// Delete falla con ErrConflict si algún proyecto referencia el producto; borra sus existencias.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.store.view(r.inTx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range st.projects {
			for _, li := range p.LineItems {
				if li.ProductID == id {
					return domain.ErrConflict
				}
			}
		}
		delete(st.products, id)
		for k := range st.stock {
			if k.productID == id {
				delete(st.stock, k)
			}
		}
		return nil
	})
}
