package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ project.TxRunner   = (*TxRunner)(nil)
	_ task.TxRunner      = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx abre la transacción, ejecuta fn y hace Commit; cualquier error hace Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run operaciones del libro de inventario: stock + registro de auditoría.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	logRepo repository.StockLogRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockRepository(tx), NewStockLogRepository(tx))
	})
}

// RunProject creación de proyecto junto con sus tareas generadas.
func (r *TxRunner) RunProject(ctx context.Context, fn func(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewProjectRepository(tx), NewTaskRepository(tx))
	})
}

// RunTasks transiciones de tareas con bloqueo de línea y cierre del proyecto.
func (r *TxRunner) RunTasks(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewTaskRepository(tx), NewProjectRepository(tx))
	})
}
