package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location" validate:"max=300"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location *string `json:"location" validate:"omitempty,max=300"`
}

// WarehouseResponse salida de una bodega; Stock solo se llena en el detalle.
type WarehouseResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Stock     []WarehouseItem `json:"stock,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// WarehouseItem existencia de un producto dentro de la bodega.
type WarehouseItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
