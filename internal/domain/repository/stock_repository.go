package repository

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Usado dentro de transacciones para garantizar consistencia.
// Get y GetForUpdate devuelven una existencia en cero si la fila no existe.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error)
	Upsert(ctx context.Context, stock *entity.StockEntry) error
	ListByProduct(ctx context.Context, productID string) ([]entity.StockEntry, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]entity.StockEntry, error)
}
