package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// PerformanceUseCase rendimiento por usuario asignado (tareas completadas sobre asignadas).
type PerformanceUseCase struct {
	statsRepo repository.StatsRepository
	exporter  PerformanceExporter
}

// NewPerformanceUseCase construye el caso de uso. exporter puede ser nil si no se exporta.
func NewPerformanceUseCase(statsRepo repository.StatsRepository, exporter PerformanceExporter) *PerformanceUseCase {
	return &PerformanceUseCase{statsRepo: statsRepo, exporter: exporter}
}

// EmployeePerformance filas ordenadas por tasa de cumplimiento desc, luego por nombre.
func (uc *PerformanceUseCase) EmployeePerformance(ctx context.Context) ([]dto.EmployeePerformanceDTO, error) {
	counts, err := uc.statsRepo.TaskCountsByAssignee(ctx)
	if err != nil {
		return nil, fmt.Errorf("rendimiento: %w", err)
	}
	rows := make([]dto.EmployeePerformanceDTO, 0, len(counts))
	for _, c := range counts {
		rate := 0
		if c.Total > 0 {
			rate = int(math.Round(float64(c.Completed) / float64(c.Total) * 100))
		}
		rows = append(rows, dto.EmployeePerformanceDTO{
			ID:             c.UserID,
			Name:           c.Name,
			Email:          c.Email,
			Role:           c.Role,
			TotalAssigned:  c.Total,
			Completed:      c.Completed,
			Pending:        c.Total - c.Completed,
			CompletionRate: rate,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompletionRate != rows[j].CompletionRate {
			return rows[i].CompletionRate > rows[j].CompletionRate
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

// Export genera el archivo del reporte de rendimiento.
func (uc *PerformanceUseCase) Export(ctx context.Context) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportación no configurada")
	}
	rows, err := uc.EmployeePerformance(ctx)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportPerformance(rows)
}
