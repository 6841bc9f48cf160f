package analytics

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
)

// StatsCache caché de lectura del dashboard. Un fallo de caché nunca impide responder.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// PerformanceExporter genera el archivo de rendimiento por empleado.
type PerformanceExporter interface {
	ExportPerformance(rows []dto.EmployeePerformanceDTO) ([]byte, error)
}
