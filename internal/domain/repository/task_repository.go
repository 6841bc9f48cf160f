package repository

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// TaskFilter filtros de listado de tareas; Statuses vacío = todos.
type TaskFilter struct {
	Statuses   []string
	ProjectID  string
	AssignedTo string
	Limit      int
	Offset     int
}

// TaskRepository define el puerto de persistencia para Task.
type TaskRepository interface {
	CreateBatch(ctx context.Context, tasks []*entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// ListLineForUpdate devuelve y bloquea todas las tareas de una línea del proyecto.
	ListLineForUpdate(ctx context.Context, projectID string, lineIndex int) ([]*entity.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
}
