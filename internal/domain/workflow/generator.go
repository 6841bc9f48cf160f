package workflow

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// Generate instancia una tarea por cada par (línea del proyecto, paso del producto).
// El primer paso de cada línea queda pending y los siguientes locked; todas se asignan al líder.
// Un producto sin pasos no genera tareas.
func Generate(project *entity.Project, products map[string]*entity.Product, now time.Time) ([]*entity.Task, error) {
	var tasks []*entity.Task
	for i, item := range project.LineItems {
		product, ok := products[item.ProductID]
		if !ok || product == nil {
			return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		steps := append([]entity.ProcessStep(nil), product.Steps...)
		sort.SliceStable(steps, func(a, b int) bool { return steps[a].Sequence < steps[b].Sequence })
		for j, step := range steps {
			status := entity.TaskStatusLocked
			if j == 0 {
				status = entity.TaskStatusPending
			}
			tasks = append(tasks, &entity.Task{
				ID:             uuid.New().String(),
				ProjectID:      project.ID,
				ProductID:      product.ID,
				LineIndex:      i,
				Title:          step.Title,
				Description:    step.Description,
				Sequence:       step.Sequence,
				RequiredPhotos: append([]string(nil), step.RequiredPhotos...),
				AssignedTo:     project.LeaderID,
				Status:         status,
				Photos:         map[string]string{},
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
	}
	return tasks, nil
}
