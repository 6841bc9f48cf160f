package repository

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// ProductFilter criterios de búsqueda del catálogo.
type ProductFilter struct {
	Search string // coincide con nombre o SKU, sin distinguir mayúsculas
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
