package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry representa la cantidad de un producto en una bodega (nunca negativa).
type StockEntry struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
