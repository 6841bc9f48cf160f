package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessStepDTO paso de proceso en requests y responses.
type ProcessStepDTO struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    string   `json:"description"`
	Sequence       int      `json:"sequence" validate:"min=0"`
	RequiredPhotos []string `json:"requiredPhotos" validate:"dive,oneof=before after"`
}

// CreateProductRequest entrada para crear un producto. SKU vacío = se genera desde el nombre.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	SKU         string           `json:"sku" validate:"max=100"`
	Category    string           `json:"category" validate:"max=100"`
	Description string           `json:"description"`
	Steps       []ProcessStepDTO `json:"processSteps" validate:"dive"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock solo cambia vía el libro).
type UpdateProductRequest struct {
	Name        *string           `json:"name" validate:"omitempty,min=1,max=200"`
	SKU         *string           `json:"sku" validate:"omitempty,min=1,max=100"`
	Category    *string           `json:"category" validate:"omitempty,max=100"`
	Description *string           `json:"description"`
	Steps       *[]ProcessStepDTO `json:"processSteps" validate:"omitempty,dive"`
}

// StockEntryDTO existencia por bodega.
type StockEntryDTO struct {
	WarehouseID   string          `json:"warehouseId"`
	WarehouseName string          `json:"warehouseName,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// ProductResponse salida de un producto con su stock.
type ProductResponse struct {
	ID          string           `json:"id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Steps       []ProcessStepDTO `json:"processSteps"`
	Stock       []StockEntryDTO  `json:"stock"`
	TotalStock  decimal.Decimal  `json:"totalStock"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportRowResult resultado de una fila de la importación masiva.
type ImportRowResult struct {
	Row       int    `json:"row"`
	Name      string `json:"name"`
	Status    string `json:"status"` // success | failed
	Error     string `json:"error,omitempty"`
	ProductID string `json:"productId,omitempty"`
}

// ImportReport reporte estructurado de la importación masiva.
type ImportReport struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Rows      []ImportRowResult `json:"rows"`
}
