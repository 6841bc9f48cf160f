package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// InventoryHandler maneja las operaciones del libro de inventario (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// AddStock godoc
// @Summary      Ingresar stock (IN)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "Producto, bodega y cantidad"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/add [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.ledger.AddStock(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveStock godoc
// @Summary      Descontar stock consumido (OUT)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RemoveStockRequest  true  "Producto, bodega y cantidad"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/inventory/stock/remove [post]
func (h *InventoryHandler) RemoveStock(c *fiber.Ctx) error {
	var in dto.RemoveStockRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.ledger.RemoveStock(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// TransferStock godoc
// @Summary      Trasladar stock entre bodegas (TRANSFER, atómico)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "Producto, origen, destino y cantidad"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente en origen"
// @Router       /api/inventory/stock/transfer [post]
func (h *InventoryHandler) TransferStock(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.ledger.TransferStock(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLogs godoc
// @Summary      Historial del libro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId    query  string  false  "Producto"
// @Param        warehouseId  query  string  false  "Bodega (origen o destino)"
// @Param        action       query  string  false  "IN | OUT | TRANSFER"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockLogListResponse
// @Router       /api/inventory/logs [get]
func (h *InventoryHandler) ListLogs(c *fiber.Ctx) error {
	page := pageOf(c)
	out, err := h.ledger.ListLogs(c.Context(), repository.StockLogFilter{
		ProductID:   c.Query("productId"),
		WarehouseID: c.Query("warehouseId"),
		Action:      strings.ToUpper(c.Query("action")),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
