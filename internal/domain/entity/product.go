package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de foto que un paso puede exigir.
const (
	PhotoBefore = "before"
	PhotoAfter  = "after"
)

// ProcessStep es la plantilla de una etapa del ciclo de vida del producto en sitio.
// Sequence es 1..N contiguo dentro del producto.
type ProcessStep struct {
	Title          string
	Description    string
	Sequence       int
	RequiredPhotos []string
}

// Product representa un producto del catálogo con sus pasos de instalación.
// El stock no se edita aquí: solo vía el libro de inventario (StockEntry/StockLog).
type Product struct {
	ID          string
	SKU         string // único, usado para búsqueda
	Name        string
	Category    string
	Description string
	Steps       []ProcessStep
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductWithStock agrega al producto sus existencias por bodega.
type ProductWithStock struct {
	Product
	Stock []StockEntry
}

// TotalStock suma las cantidades de todas las bodegas.
func (p ProductWithStock) TotalStock() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Stock {
		total = total.Add(s.Quantity)
	}
	return total
}
