package memory

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ project.TxRunner = (*TxRunner)(nil)
var _ task.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones sobre el Store: fn corre con el mutex tomado y, si devuelve error,
// el estado se restaura a la copia tomada al inicio.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snapshot := r.store.data.clone()
	if err := fn(); err != nil {
		r.store.data = snapshot
		return err
	}
	return nil
}

// Run ejecuta fn con los repos de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	logRepo repository.StockLogRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&StockRepo{store: r.store, inTx: true}, &StockLogRepo{store: r.store, inTx: true})
	})
}

// RunProject ejecuta fn con los repos de proyectos y tareas.
func (r *TxRunner) RunProject(ctx context.Context, fn func(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&ProjectRepo{store: r.store, inTx: true}, &TaskRepo{store: r.store, inTx: true})
	})
}

// RunTasks ejecuta fn con los repos de tareas y proyectos.
func (r *TxRunner) RunTasks(ctx context.Context, fn func(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(&TaskRepo{store: r.store, inTx: true}, &ProjectRepo{store: r.store, inTx: true})
	})
}
