package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones del libro de inventario.
const (
	StockActionIN       = "IN"       // entrada
	StockActionOUT      = "OUT"      // salida / consumo
	StockActionTRANSFER = "TRANSFER" // traslado entre bodegas
)

// StockLog registro de auditoría de cada mutación de stock. Solo se inserta, nunca se modifica.
// En TRANSFER, WarehouseID es la bodega origen y ToWarehouseID la destino.
type StockLog struct {
	ID            string
	Action        string
	ProductID     string
	WarehouseID   string
	ToWarehouseID string
	Quantity      decimal.Decimal
	Reason        string
	UserID        string
	CreatedAt     time.Time
}
