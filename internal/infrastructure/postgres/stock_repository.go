package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una bodega; sin fila devuelve cantidad cero.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	return r.get(ctx, query, productID, warehouseID)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
// Primero asegura que la fila exista para que el bloqueo también cubra la primera entrada.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockEntry, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.get(ctx, query, productID, warehouseID)
}

func (r *StockRepo) get(ctx context.Context, query, productID, warehouseID string) (*entity.StockEntry, error) {
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockEntry{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y bodega).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockEntry) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, stock.ProductID, stock.WarehouseID, stock.Quantity); err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]entity.StockEntry, error) {
	return r.list(ctx, `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 ORDER BY warehouse_id`, productID)
}

func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]entity.StockEntry, error) {
	return r.list(ctx, `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE warehouse_id = $1 ORDER BY product_id`, warehouseID)
}

func (r *StockRepo) list(ctx context.Context, query, arg string) ([]entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var out []entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
