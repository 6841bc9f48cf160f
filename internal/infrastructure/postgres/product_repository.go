package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// Los pasos de proceso se guardan como JSONB en la misma fila.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type stepJSON struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Sequence       int      `json:"sequence"`
	RequiredPhotos []string `json:"requiredPhotos"`
}

func encodeSteps(steps []entity.ProcessStep) ([]byte, error) {
	out := make([]stepJSON, 0, len(steps))
	for _, s := range steps {
		out = append(out, stepJSON{Title: s.Title, Description: s.Description, Sequence: s.Sequence, RequiredPhotos: s.RequiredPhotos})
	}
	return json.Marshal(out)
}

func decodeSteps(raw []byte) ([]entity.ProcessStep, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var in []stepJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]entity.ProcessStep, 0, len(in))
	for _, s := range in {
		out = append(out, entity.ProcessStep{Title: s.Title, Description: s.Description, Sequence: s.Sequence, RequiredPhotos: s.RequiredPhotos})
	}
	return out, nil
}

const productColumns = `id, sku, name, category, description, steps, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var steps []byte
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Description, &steps, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	decoded, err := decodeSteps(steps)
	if err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}
	p.Steps = decoded
	return &p, nil
}

// Create persiste un nuevo producto. SKU repetido (sin distinguir mayúsculas) es ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	steps, err := encodeSteps(product.Steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Category, product.Description,
		steps, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE upper(sku) = upper($1)`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza datos y pasos. El stock no se toca (solo vía el libro).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	steps, err := encodeSteps(product.Steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	query := `
		UPDATE products SET sku = $2, name = $3, category = $4, description = $5, steps = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Category, product.Description, steps, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por nombre, filtrando por nombre o SKU.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%'
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto y sus existencias. Si un proyecto lo usa devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
