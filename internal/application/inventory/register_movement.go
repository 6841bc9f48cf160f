package inventory

import (
	"context"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// AddStock crea o incrementa la existencia (IN).
func (uc *LedgerUseCase) AddStock(ctx context.Context, userID string, in dto.AddStockRequest) (*dto.StockMovementResponse, error) {
	return uc.Register(ctx, MovementInput{
		Action:      entity.StockActionIN,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reason:      defaultReason(in.Reason, "Ingreso de stock"),
		UserID:      userID,
	})
}

// RemoveStock descuenta stock consumido en una bodega (OUT).
func (uc *LedgerUseCase) RemoveStock(ctx context.Context, userID string, in dto.RemoveStockRequest) (*dto.StockMovementResponse, error) {
	return uc.Register(ctx, MovementInput{
		Action:      entity.StockActionOUT,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Reason:      defaultReason(in.Reason, "Salida de stock"),
		UserID:      userID,
	})
}

// TransferStock mueve stock entre bodegas en una sola operación atómica (TRANSFER).
func (uc *LedgerUseCase) TransferStock(ctx context.Context, userID string, in dto.TransferStockRequest) (*dto.StockMovementResponse, error) {
	return uc.Register(ctx, MovementInput{
		Action:        entity.StockActionTRANSFER,
		ProductID:     in.ProductID,
		WarehouseID:   in.FromWarehouseID,
		ToWarehouseID: in.ToWarehouseID,
		Quantity:      in.Quantity,
		Reason:        defaultReason(in.Reason, "Traslado entre bodegas"),
		UserID:        userID,
	})
}

func defaultReason(reason, def string) string {
	if reason == "" {
		return def
	}
	return reason
}
