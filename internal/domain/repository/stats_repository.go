package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductStockTotal stock total de un producto sumando todas las bodegas.
type ProductStockTotal struct {
	ProductID  string
	Name       string
	TotalStock decimal.Decimal
}

// AssigneeTaskCounts conteo de tareas de un usuario asignado.
type AssigneeTaskCounts struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	Total     int
	Completed int // completed + verified
}

// StatsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type StatsRepository interface {
	CountProjects(ctx context.Context) (int, error)
	// CountUsersByRole devuelve rol -> cantidad.
	CountUsersByRole(ctx context.Context) (map[string]int, error)
	// CountTasksByStatus devuelve estado -> cantidad.
	CountTasksByStatus(ctx context.Context) (map[string]int, error)
	InventoryTotals(ctx context.Context) ([]ProductStockTotal, error)
	// TaskCountsByAssignee incluye solo usuarios con al menos una tarea asignada.
	TaskCountsByAssignee(ctx context.Context) ([]AssigneeTaskCounts, error)
}
