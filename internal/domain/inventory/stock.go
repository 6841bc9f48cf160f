package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// ValidateQuantity exige una cantidad estrictamente positiva.
func ValidateQuantity(qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}

// Add suma qty a la existencia (servicio de dominio).
func Add(stock *entity.StockEntry, qty decimal.Decimal) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	stock.Quantity = stock.Quantity.Add(qty)
	return nil
}

// Remove descuenta qty; falla con ErrInsufficientStock sin tocar la existencia si no alcanza.
func Remove(stock *entity.StockEntry, qty decimal.Decimal) error {
	if err := ValidateQuantity(qty); err != nil {
		return err
	}
	if stock.Quantity.LessThan(qty) {
		return domain.ErrInsufficientStock
	}
	stock.Quantity = stock.Quantity.Sub(qty)
	return nil
}

// Transfer mueve qty de from a to. Todo o nada: si falla, ninguna existencia cambia.
func Transfer(from, to *entity.StockEntry, qty decimal.Decimal) error {
	if from.WarehouseID == to.WarehouseID {
		return domain.ErrInvalidInput
	}
	if err := Remove(from, qty); err != nil {
		return err
	}
	to.Quantity = to.Quantity.Add(qty)
	return nil
}

// Total suma las existencias de todas las bodegas.
func Total(entries []entity.StockEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Quantity)
	}
	return total
}

// LockOrder devuelve las bodegas en orden determinista para bloquear filas sin interbloqueos.
func LockOrder(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Shortfall advertencia de stock insuficiente para una línea planificada.
type Shortfall struct {
	ProductID string
	Name      string
	Planned   decimal.Decimal
	Available decimal.Decimal
}

// Shortfalls compara cantidades planificadas (agregadas por producto) contra el stock total.
// Es una verificación blanda: el resultado son advertencias, no errores.
func Shortfalls(items []entity.ProjectLineItem, stock map[string]entity.ProductWithStock) []Shortfall {
	planned := make(map[string]decimal.Decimal)
	var order []string
	for _, it := range items {
		if _, ok := planned[it.ProductID]; !ok {
			order = append(order, it.ProductID)
			planned[it.ProductID] = decimal.Zero
		}
		planned[it.ProductID] = planned[it.ProductID].Add(it.PlannedQuantity)
	}
	var out []Shortfall
	for _, id := range order {
		p := stock[id]
		available := p.TotalStock()
		if planned[id].GreaterThan(available) {
			out = append(out, Shortfall{ProductID: id, Name: p.Name, Planned: planned[id], Available: available})
		}
	}
	return out
}
