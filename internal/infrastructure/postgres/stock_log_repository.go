package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo libro de auditoría de inventario sobre PostgreSQL. Solo INSERT y SELECT.
type StockLogRepo struct {
	q Querier
}

// NewStockLogRepository construye el adaptador del libro.
func NewStockLogRepository(q Querier) *StockLogRepo {
	return &StockLogRepo{q: q}
}

func (r *StockLogRepo) Create(ctx context.Context, l *entity.StockLog) error {
	query := `
		INSERT INTO stock_logs (id, action, product_id, warehouse_id, to_warehouse_id, quantity, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Action, l.ProductID, l.WarehouseID, l.ToWarehouseID, l.Quantity, l.Reason, l.UserID, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock log: %w", err)
	}
	return nil
}

// List del más reciente al más antiguo; WarehouseID coincide con origen o destino.
func (r *StockLogRepo) List(ctx context.Context, f repository.StockLogFilter) ([]*entity.StockLog, error) {
	query := `
		SELECT id, action, product_id, warehouse_id, to_warehouse_id, quantity, reason, user_id, created_at
		FROM stock_logs
		WHERE ($1 = '' OR product_id = $1)
		  AND ($2 = '' OR warehouse_id = $2 OR to_warehouse_id = $2)
		  AND ($3 = '' OR action = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, query, f.ProductID, f.WarehouseID, f.Action, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list stock logs: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockLog
	for rows.Next() {
		var l entity.StockLog
		if err := rows.Scan(&l.ID, &l.Action, &l.ProductID, &l.WarehouseID, &l.ToWarehouseID,
			&l.Quantity, &l.Reason, &l.UserID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock log: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
