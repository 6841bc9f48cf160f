package project

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos de proyectos y tareas atados a ella.
type TxRunner interface {
	RunProject(ctx context.Context, fn func(
		projectRepo repository.ProjectRepository,
		taskRepo repository.TaskRepository,
	) error) error
}

// ReportGenerator define el puerto para generar el PDF de avance de un proyecto.
type ReportGenerator interface {
	GenerateProjectReport(details *dto.ProjectDetailsResponse) ([]byte, error)
}
