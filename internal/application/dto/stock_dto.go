package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddStockRequest body para POST /api/inventory/stock/add.
type AddStockRequest struct {
	ProductID   string          `json:"productId" validate:"required"`
	WarehouseID string          `json:"warehouseId" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason" validate:"max=500"`
}

// RemoveStockRequest body para POST /api/inventory/stock/remove.
type RemoveStockRequest struct {
	ProductID   string          `json:"productId" validate:"required"`
	WarehouseID string          `json:"warehouseId" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason" validate:"max=500"`
}

// TransferStockRequest body para POST /api/inventory/stock/transfer.
type TransferStockRequest struct {
	ProductID       string          `json:"productId" validate:"required"`
	FromWarehouseID string          `json:"fromWarehouseId" validate:"required"`
	ToWarehouseID   string          `json:"toWarehouseId" validate:"required,nefield=FromWarehouseID"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reason          string          `json:"reason" validate:"max=500"`
}

// StockLogResponse registro del libro de inventario.
type StockLogResponse struct {
	ID            string          `json:"id"`
	Action        string          `json:"action"`
	ProductID     string          `json:"productId"`
	WarehouseID   string          `json:"warehouseId"`
	ToWarehouseID string          `json:"toWarehouseId,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason"`
	PerformedBy   string          `json:"performedBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StockLogListResponse lista paginada del libro.
type StockLogListResponse struct {
	Items []StockLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockMovementResponse resultado de una operación del libro: existencias resultantes y el registro.
type StockMovementResponse struct {
	Stock []StockEntryDTO  `json:"stock"`
	Log   StockLogResponse `json:"log"`
}

// StockWarningDTO advertencia blanda de stock insuficiente para una línea planificada.
type StockWarningDTO struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Planned     decimal.Decimal `json:"planned"`
	Available   decimal.Decimal `json:"available"`
	Message     string          `json:"message"`
}
