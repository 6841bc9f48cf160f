package repository

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// StockLogFilter filtros del historial; vacío = sin filtro.
type StockLogFilter struct {
	ProductID   string
	WarehouseID string // coincide con origen o destino
	Action      string
	Limit       int
	Offset      int
}

// StockLogRepository define el puerto del libro de auditoría. Solo inserción y lectura.
type StockLogRepository interface {
	Create(ctx context.Context, log *entity.StockLog) error
	// List devuelve los registros del más reciente al más antiguo.
	List(ctx context.Context, filter StockLogFilter) ([]*entity.StockLog, error)
}
