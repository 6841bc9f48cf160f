package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas agregadas read-only para el dashboard.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el repositorio de estadísticas.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

func (r *StatsRepo) CountProjects(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

func (r *StatsRepo) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
}

func (r *StatsRepo) CountTasksByStatus(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT status, count(*) FROM tasks GROUP BY status`)
}

func (r *StatsRepo) countBy(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, fmt.Errorf("stats scan: %w", err)
		}
		out[k] = n
	}
	return out, rows.Err()
}

// InventoryTotals stock total por producto (productos sin stock incluidos con cero).
func (r *StatsRepo) InventoryTotals(ctx context.Context) ([]repository.ProductStockTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(s.quantity), 0)
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("inventory totals: %w", err)
	}
	defer rows.Close()
	var out []repository.ProductStockTotal
	for rows.Next() {
		var t repository.ProductStockTotal
		if err := rows.Scan(&t.ProductID, &t.Name, &t.TotalStock); err != nil {
			return nil, fmt.Errorf("inventory totals scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TaskCountsByAssignee tareas asignadas y terminadas (completed o verified) por usuario.
func (r *StatsRepo) TaskCountsByAssignee(ctx context.Context) ([]repository.AssigneeTaskCounts, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.id, u.name, u.email, u.role,
		       count(t.id),
		       count(t.id) FILTER (WHERE t.status IN ($1, $2))
		FROM users u
		JOIN tasks t ON t.assigned_to = u.id
		GROUP BY u.id, u.name, u.email, u.role`,
		entity.TaskStatusCompleted, entity.TaskStatusVerified)
	if err != nil {
		return nil, fmt.Errorf("task counts: %w", err)
	}
	defer rows.Close()
	var out []repository.AssigneeTaskCounts
	for rows.Next() {
		var c repository.AssigneeTaskCounts
		if err := rows.Scan(&c.UserID, &c.Name, &c.Email, &c.Role, &c.Total, &c.Completed); err != nil {
			return nil, fmt.Errorf("task counts scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
