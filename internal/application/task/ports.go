package task

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos de tareas y proyectos atados a ella.
type TxRunner interface {
	RunTasks(ctx context.Context, fn func(
		taskRepo repository.TaskRepository,
		projectRepo repository.ProjectRepository,
	) error) error
}

// TransitionRecorder registra métricas de transiciones aplicadas.
type TransitionRecorder interface {
	TaskTransition(action string)
}

// FileResolver normaliza referencias de archivos en las respuestas.
type FileResolver interface {
	Resolve(ref string) string
	ResolveMap(refs map[string]string) map[string]string
}
