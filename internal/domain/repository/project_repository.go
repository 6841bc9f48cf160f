package repository

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// ProjectFilter filtros de listado de proyectos.
type ProjectFilter struct {
	Status   string
	LeaderID string
	Limit    int
	Offset   int
}

// ProjectRepository define el puerto de persistencia para Project y sus líneas.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	List(ctx context.Context, filter ProjectFilter) ([]*entity.Project, error)
	// Delete elimina el proyecto y sus tareas.
	Delete(ctx context.Context, id string) error
}
