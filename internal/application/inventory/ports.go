package inventory

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		logRepo repository.StockLogRepository,
	) error) error
}

// ImportLocker serializa importaciones concurrentes del catálogo.
// release libera el bloqueo; nunca es nil cuando err == nil.
type ImportLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// MovementRecorder registra métricas del libro y de la importación. nil = sin métricas.
type MovementRecorder interface {
	StockMovement(action string)
	ImportRow(status string)
}

type nopRecorder struct{}

func (nopRecorder) StockMovement(string) {}
func (nopRecorder) ImportRow(string)     {}
